package models

// User is an account that can log in. Email is unique across users.
type User struct {
	ID             int64
	Email          string
	HashedPassword string
	IsSuperuser    bool
}
