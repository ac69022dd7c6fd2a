package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/items"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
}
