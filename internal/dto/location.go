package dto

import "encoding/json"

// CreateLocationRequest is the payload accepted by the location creation routes.
type CreateLocationRequest struct {
	ClientID           string          `json:"client_id,omitempty"`
	LocationReference  string          `json:"location_reference"`
	BusinessName       string          `json:"business_name"`
	Address1           string          `json:"address1"`
	Address2           string          `json:"address2,omitempty"`
	City               string          `json:"city,omitempty"`
	Region             string          `json:"region,omitempty"`
	Postcode           string          `json:"postcode,omitempty"`
	Country            string          `json:"country"`
	BusinessCategoryID int64           `json:"business_category_id"`
	Description        string          `json:"description"`
	Telephone          string          `json:"telephone"`
	URL                string          `json:"url,omitempty"`
	Email              string          `json:"email,omitempty"`
	ContactFirstName   string          `json:"contact_first_name,omitempty"`
	ContactLastName    string          `json:"contact_last_name,omitempty"`
	OpeningHours       json.RawMessage `json:"opening_hours,omitempty"`
	SocialProfiles     json.RawMessage `json:"social_profiles,omitempty"`
	Images             json.RawMessage `json:"images,omitempty"`
}

// CreateLocationResponse reports the outcome of a location creation.
type CreateLocationResponse struct {
	ID                    string `json:"id"`
	BrightLocalLocationID int64  `json:"brightlocal_location_id"`
	LocationReference     string `json:"location_reference"`
	AlreadyExisted        bool   `json:"already_existed"`
}

// LocationFilter contains query parameters for the operator listing.
type LocationFilter struct {
	ClientID string
	Country  string
	Q        string
	Page     int
	PerPage  int
}
