// Package repomanager provides a RepositoryManager for SQL stores, wiring
// together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/migrations"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/items"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends repositories bound to a DBTX and migrates the
// schema for its dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// migrationTarget maps a dialect to the goose dialect name and the
// directory of the embedded migrations.
func migrationTarget(d dbx.Dialect) (gooseDialect string, dir string, err error) {
	switch d {
	case dbx.DialectPostgres:
		return "pgx", "postgres", nil
	case dbx.DialectSQLite:
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseDialect, dir, err := migrationTarget(m.dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return err
	}
	return nil
}

func NewSQLRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	if _, _, err := migrationTarget(dialect); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}
