package items

import (
	"context"

	"github.com/dmitrijs2005/apiapp/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	List(ctx context.Context, skip, limit int) ([]*models.Item, error)
}
