// Package places looks up businesses with the Google Places API (New) and turns
// a place into a prefilled location draft.
package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	placesapi "google.golang.org/api/places/v1"

	"github.com/octobees/agency-web/internal/country"
)

const defaultTimeout = 15 * time.Second

var detailFields = []googleapi.Field{
	"id",
	"displayName",
	"formattedAddress",
	"postalAddress",
	"nationalPhoneNumber",
	"internationalPhoneNumber",
	"websiteUri",
	"primaryType",
}

// Config carries the Maps API key. Endpoint and HTTPClient are overridden in tests.
type Config struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	PlaceID       string `json:"place_id"`
	Text          string `json:"text"`
	MainText      string `json:"main_text,omitempty"`
	SecondaryText string `json:"secondary_text,omitempty"`
}

// Draft is a place mapped onto the fields of a location profile.
type Draft struct {
	PlaceID      string `json:"place_id"`
	BusinessName string `json:"business_name"`
	Address1     string `json:"address1,omitempty"`
	Address2     string `json:"address2,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
	Telephone    string `json:"telephone,omitempty"`
	URL          string `json:"url,omitempty"`
	Category     string `json:"category_hint,omitempty"`
}

// Client wraps the generated Places service.
type Client struct {
	svc *placesapi.Service
}

// NewClient builds the Places client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" && cfg.HTTPClient == nil {
		return nil, errors.New("places api key must not be empty")
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey), option.WithHTTPClient(&http.Client{Timeout: defaultTimeout}))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := placesapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create places service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Autocomplete returns place predictions for input, restricted to regionCode
// (alpha-2) when given. sessionToken groups the calls of one search for billing.
func (c *Client) Autocomplete(ctx context.Context, input, regionCode, sessionToken string) ([]Prediction, error) {
	req := &placesapi.GoogleMapsPlacesV1AutocompletePlacesRequest{
		Input:        input,
		SessionToken: sessionToken,
	}
	if regionCode != "" {
		req.IncludedRegionCodes = []string{strings.ToLower(regionCode)}
	}

	resp, err := c.svc.Places.Autocomplete(req).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		if s == nil || s.PlacePrediction == nil || s.PlacePrediction.PlaceId == "" {
			continue
		}
		p := s.PlacePrediction
		prediction := Prediction{PlaceID: p.PlaceId}
		if p.Text != nil {
			prediction.Text = p.Text.Text
		}
		if sf := p.StructuredFormat; sf != nil {
			if sf.MainText != nil {
				prediction.MainText = sf.MainText.Text
			}
			if sf.SecondaryText != nil {
				prediction.SecondaryText = sf.SecondaryText.Text
			}
		}
		predictions = append(predictions, prediction)
	}
	return predictions, nil
}

// Details fetches a place and maps it into a Draft.
func (c *Client) Details(ctx context.Context, placeID, sessionToken string) (*Draft, error) {
	call := c.svc.Places.Get("places/" + placeID).Fields(detailFields...).Context(ctx)
	if sessionToken != "" {
		call = call.SessionToken(sessionToken)
	}
	place, err := call.Do()
	if err != nil {
		return nil, err
	}
	return draftFromPlace(placeID, place), nil
}

func draftFromPlace(placeID string, place *placesapi.GoogleMapsPlacesV1Place) *Draft {
	draft := &Draft{
		PlaceID:   placeID,
		Telephone: place.InternationalPhoneNumber,
		URL:       place.WebsiteUri,
		Category:  place.PrimaryType,
	}
	if place.Id != "" {
		draft.PlaceID = place.Id
	}
	if draft.Telephone == "" {
		draft.Telephone = place.NationalPhoneNumber
	}
	if place.DisplayName != nil {
		draft.BusinessName = place.DisplayName.Text
	}

	addr := place.PostalAddress
	if addr == nil {
		// Only the formatted line is known; keep its first segment as address1.
		first, _, _ := strings.Cut(place.FormattedAddress, ",")
		draft.Address1 = strings.TrimSpace(first)
		return draft
	}
	if len(addr.AddressLines) > 0 {
		draft.Address1 = addr.AddressLines[0]
	}
	if len(addr.AddressLines) > 1 {
		draft.Address2 = strings.Join(addr.AddressLines[1:], ", ")
	}
	draft.City = addr.Locality
	draft.Region = addr.AdministrativeArea
	draft.Postcode = addr.PostalCode
	if iso3, ok := country.Alpha3(addr.RegionCode); ok {
		draft.Country = iso3
	}
	return draft
}
