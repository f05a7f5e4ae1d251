package entity

import "time"

// Patient is a clinical record owned by exactly one user. OwnerID is
// server-assigned at creation and every read or write is scoped to it.
type Patient struct {
	ID          int64
	OwnerID     string
	Name        string
	Age         int
	Gender      string
	DocumentURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
