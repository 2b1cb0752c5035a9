package entity

import (
	"time"

	"github.com/google/uuid"
)

// Operator is an agency staff account allowed to run sync and admin endpoints.
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
