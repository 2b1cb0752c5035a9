package entity

import (
	"time"

	"github.com/google/uuid"
)

// Client is an agency customer that owns one or more locations.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
