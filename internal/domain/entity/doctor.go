package entity

import "time"

// Doctor is part of the shared clinical directory: visible to every
// authenticated user, owned by none.
type Doctor struct {
	ID             int64
	Name           string
	Specialization string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
