package models

// Item is owned by exactly one existing User.
type Item struct {
	ID          int64
	Title       string
	Description string
	OwnerID     int64
}
