package items

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts item and fills in its id. An owner that does not exist
// yields common.ErrUnknownOwner.
func (r *SQLRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query :=
		`INSERT INTO items (title, description, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.OwnerID).Scan(&item.ID)

	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrUnknownOwner
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *SQLRepository) List(ctx context.Context, skip, limit int) ([]*models.Item, error) {
	query :=
		`SELECT id, title, description, owner_id FROM items
		 ORDER BY id
		 LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Item, 0)
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.OwnerID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
