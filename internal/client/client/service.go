// Package client is a typed HTTP client for the user and item API.
package client

import "context"

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Superuser bool   `json:"superuser"`
}

type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     int64  `json:"owner_id"`
}

type Client interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	LoggedIn() bool

	Me(ctx context.Context) (*User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, email string, password []byte) (*User, error)

	ListItems(ctx context.Context, skip, limit int) ([]Item, error)
	CreateItem(ctx context.Context, title, description string) (*Item, error)
	CreateItemForUser(ctx context.Context, ownerID int64, title, description string) (*Item, error)
}
