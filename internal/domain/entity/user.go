package entity

import "time"

// User is an account that owns patient records.
// Password holds a bcrypt hash, never the plain credential.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
