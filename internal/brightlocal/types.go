package brightlocal

import (
	"encoding/json"
	"fmt"
)

// Category is a business category as returned by the provider.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoriesResponse struct {
	TotalCount int        `json:"total_count"`
	Items      []Category `json:"items"`
}

// Directory is a citation site known to the provider.
type Directory struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Countries   []string          `json:"countries"`
	CountryURLs map[string]string `json:"country_urls"`
}

type directoriesResponse struct {
	Items []Directory `json:"items"`
}

// Address is the postal address block of a location.
type Address struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country"`
}

// LocationInput is the create-location payload sent to the provider.
type LocationInput struct {
	BusinessName       string          `json:"business_name"`
	LocationReference  string          `json:"location_reference"`
	URL                string          `json:"url,omitempty"`
	Description        string          `json:"description"`
	Telephone          string          `json:"telephone"`
	Email              string          `json:"email,omitempty"`
	ContactFirstName   string          `json:"contact_first_name,omitempty"`
	ContactLastName    string          `json:"contact_last_name,omitempty"`
	BusinessCategoryID int64           `json:"business_category_id"`
	Address            Address         `json:"address"`
	OpeningHours       json.RawMessage `json:"opening_hours,omitempty"`
	SocialProfiles     json.RawMessage `json:"social_profiles,omitempty"`
	Images             json.RawMessage `json:"images,omitempty"`
}

type createLocationResponse struct {
	LocationID int64 `json:"location_id"`
}

// Listing is one directory entry found for a location.
type Listing struct {
	Directory string `json:"directory"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
}

// Live reports whether the provider found the listing published.
func (l Listing) Live() bool {
	return l.Status == "live" || l.Status == "found"
}

type listingsResponse struct {
	Items []Listing `json:"items"`
}

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError is returned when no response was received from the provider.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider request timed out: %v", e.Err)
	}
	return fmt.Sprintf("provider request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
