package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a customer account. Guest checkout creates one keyed by email.
type Account struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
