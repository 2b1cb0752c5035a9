package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ClientLocation mirrors a business location created with the provider.
// BrightLocalLocationID is only ever set from a provider response.
type ClientLocation struct {
	ID                    uuid.UUID       `json:"id"`
	ClientID              *uuid.UUID      `json:"client_id,omitempty"`
	BrightLocalLocationID *int64          `json:"brightlocal_location_id,omitempty"`
	LocationReference     string          `json:"location_reference"`
	BusinessName          string          `json:"business_name"`
	Address1              string          `json:"address1"`
	Address2              *string         `json:"address2,omitempty"`
	City                  *string         `json:"city,omitempty"`
	Region                *string         `json:"region,omitempty"`
	Postcode              *string         `json:"postcode,omitempty"`
	Country               string          `json:"country"`
	BusinessCategoryID    int64           `json:"business_category_id"`
	Description           string          `json:"description"`
	Telephone             string          `json:"telephone"`
	URL                   *string         `json:"url,omitempty"`
	Email                 *string         `json:"email,omitempty"`
	ContactFirstName      *string         `json:"contact_first_name,omitempty"`
	ContactLastName       *string         `json:"contact_last_name,omitempty"`
	OpeningHours          json.RawMessage `json:"opening_hours"`
	SocialProfiles        json.RawMessage `json:"social_profiles"`
	Images                json.RawMessage `json:"images"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}
