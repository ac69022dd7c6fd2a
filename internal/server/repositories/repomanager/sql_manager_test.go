package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/items"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewSQLRepositoryManager(t *testing.T) {
	for _, d := range []dbx.Dialect{dbx.DialectPostgres, dbx.DialectSQLite} {
		m, err := NewSQLRepositoryManager(d)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		var _ RepositoryManager = m
	}

	if _, err := NewSQLRepositoryManager("oracle"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: dbx.DialectSQLite}

	if u := m.Users(db); u == nil {
		t.Fatal("Users() nil")
	}
	if it := m.Items(db); it == nil {
		t.Fatal("Items() nil")
	}

	var _ users.Repository = m.Users(db)
	var _ items.Repository = m.Items(db)
}

func TestRunMigrations_DirPerDialect(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	for dialect, wantDir := range map[dbx.Dialect]string{
		dbx.DialectPostgres: "postgres",
		dbx.DialectSQLite:   "sqlite",
	} {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			if len(opts) != 0 {
				return errors.New("unexpected opts")
			}
			return nil
		}

		m := &SQLRepositoryManager{dialect: dialect}
		if err := m.RunMigrations(context.Background(), db); err != nil {
			t.Fatalf("RunMigrations error: %v", err)
		}
		if gotDir != wantDir {
			t.Fatalf("%s: dir %q, want %q", dialect, gotDir, wantDir)
		}
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLRepositoryManager{dialect: dbx.DialectPostgres}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRunMigrations_SQLite(t *testing.T) {
	db, dialect, err := dbx.Open("sqlite://file:migrations_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	m, err := NewSQLRepositoryManager(dialect)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}

	ctx := context.Background()
	u, err := m.Users(db).GetByEmail(ctx, "nobody@example.com")
	if u != nil || err == nil {
		t.Fatalf("expected not found on empty schema, got %v, %v", u, err)
	}
}
