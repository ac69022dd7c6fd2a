package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/dmitrijs2005/apiapp/internal/server/models"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/items"
	"github.com/dmitrijs2005/apiapp/internal/server/repositories/users"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Session carries out the API operations inside one request transaction.
type Session struct {
	provider *Provider
	users    users.Repository
	items    items.Repository
}

// Login checks email and password and returns a signed access token.
// Unknown email and wrong password fail with the same error.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return "", err
		}
		if dummy, derr := s.provider.dummy(ctx); derr == nil {
			s.provider.hasher.Verify(ctx, password, dummy)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", common.ErrInvalidCredentials
	}

	if !s.provider.hasher.Verify(ctx, password, user.HashedPassword) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", common.ErrInvalidCredentials
	}

	token, err := s.provider.tokens.Issue(strconv.FormatInt(user.ID, 10))
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Session) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}

	subject, err := s.provider.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Session) RequireSuperuser(user *models.User) error {
	if user == nil || !user.IsSuperuser {
		return common.ErrNotSuperuser
	}
	return nil
}

// Authorize applies level to the presented token. Public access returns a
// nil user without looking at the token.
func (s *Session) Authorize(ctx context.Context, token string, level Access) (*models.User, error) {
	if level == AccessPublic {
		return nil, nil
	}

	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if level == AccessSuperuser {
		if err := s.RequireSuperuser(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *Session) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	skip, limit, err := normalizePage(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.users.List(ctx, skip, limit)
}

func (s *Session) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// CreateUser registers a regular (non-superuser) account.
func (s *Session) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hashed, err := s.provider.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, &models.User{
		Email:          email,
		HashedPassword: hashed,
	})
}

func (s *Session) ListItems(ctx context.Context, skip, limit int) ([]*models.Item, error) {
	skip, limit, err := normalizePage(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.items.List(ctx, skip, limit)
}

// CreateItem stores an item for ownerID. The owner is looked up first; the
// foreign key covers an owner that disappears concurrently.
func (s *Session) CreateItem(ctx context.Context, title, description string, ownerID int64) (*models.Item, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownOwner
		}
		return nil, err
	}

	return s.items.Create(ctx, &models.Item{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	})
}

func validateCredentials(email, password string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}

func normalizePage(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, fmt.Errorf("%w: skip must not be negative", common.ErrValidation)
	}
	if limit < 0 {
		return 0, 0, fmt.Errorf("%w: limit must not be negative", common.ErrValidation)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit, nil
}
