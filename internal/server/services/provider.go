package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/dmitrijs2005/apiapp/internal/dbx"
	"github.com/dmitrijs2005/apiapp/internal/server/auth"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/repomanager"
)

// Provider holds the process-wide collaborators and opens a Session per
// request transaction.
type Provider struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	tokens      *auth.TokenIssuer

	dummyMu   sync.Mutex
	dummyHash string
}

func NewProvider(m repomanager.RepositoryManager, hasher *auth.Hasher, tokens *auth.TokenIssuer) *Provider {
	return &Provider{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Session binds the repositories to tx. The session must not outlive the
// transaction.
func (p *Provider) Session(tx dbx.DBTX) *Session {
	return &Session{
		provider: p,
		users:    p.repomanager.Users(tx),
		items:    p.repomanager.Items(tx),
	}
}

// dummy returns a valid bcrypt hash used to spend the same time on logins
// for unknown emails as on wrong passwords. Only a successful hash is kept;
// a failed attempt is retried by the next caller.
func (p *Provider) dummy(ctx context.Context) (string, error) {
	p.dummyMu.Lock()
	defer p.dummyMu.Unlock()

	if p.dummyHash != "" {
		return p.dummyHash, nil
	}
	hashed, err := p.hasher.Hash(ctx, "dummy-password")
	if err != nil {
		return "", err
	}
	p.dummyHash = hashed
	return hashed, nil
}

// Bootstrap creates the superuser account with email and password unless a
// user with that email already exists. Existing accounts are left untouched.
func (p *Provider) Bootstrap(ctx context.Context, db *sql.DB, email, password string) (*models.User, bool, error) {
	var (
		user    *models.User
		created bool
	)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.repomanager.Users(tx)

		existing, err := repo.GetByEmail(ctx, email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		hashed, err := p.hasher.Hash(ctx, password)
		if err != nil {
			return fmt.Errorf("hash superuser password: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{
			Email:          email,
			HashedPassword: hashed,
			IsSuperuser:    true,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})

	if err != nil {
		return nil, false, fmt.Errorf("bootstrap superuser: %w", err)
	}
	return user, created, nil
}
