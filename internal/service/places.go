package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/octobees/agency-web/internal/country"
	"github.com/octobees/agency-web/internal/places"
)

var placeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,256}$`)

// PlacesLookup is the subset of the Places client used by the audit flow.
type PlacesLookup interface {
	Autocomplete(ctx context.Context, input, regionCode, sessionToken string) ([]places.Prediction, error)
	Details(ctx context.Context, placeID, sessionToken string) (*places.Draft, error)
}

// PlacesService backs the business search of the audit flow.
type PlacesService struct {
	lookup PlacesLookup
}

// NewPlacesService wires the service. lookup may be nil when no Maps key is configured.
func NewPlacesService(lookup PlacesLookup) *PlacesService {
	return &PlacesService{lookup: lookup}
}

// Autocomplete returns predictions for input. region is an optional ISO-3 code.
func (s *PlacesService) Autocomplete(ctx context.Context, input, region, sessionToken string) ([]places.Prediction, error) {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) < 2 {
		return nil, validationf("input must be at least 2 characters")
	}

	var regionCode string
	if strings.TrimSpace(region) != "" {
		iso3, err := normalizeCountry("region", region)
		if err != nil {
			return nil, err
		}
		code, ok := country.Alpha2(iso3)
		if !ok {
			return nil, validationf("region %s is not supported", iso3)
		}
		regionCode = code
	}

	if s.lookup == nil {
		return nil, ErrNotConfigured
	}
	predictions, err := s.lookup.Autocomplete(ctx, input, regionCode, sessionToken)
	if err != nil {
		return nil, providerError("autocomplete places", err)
	}
	return predictions, nil
}

// Details returns the location draft for a place id.
func (s *PlacesService) Details(ctx context.Context, placeID, sessionToken string) (*places.Draft, error) {
	placeID = strings.TrimSpace(placeID)
	if !placeIDPattern.MatchString(placeID) {
		return nil, validationf("place id is not valid")
	}
	if s.lookup == nil {
		return nil, ErrNotConfigured
	}
	draft, err := s.lookup.Details(ctx, placeID, sessionToken)
	if err != nil {
		return nil, providerError("fetch place details", err)
	}
	if draft.Telephone != "" && draft.Country != "" {
		if phone, err := normalizePhone(draft.Telephone, draft.Country); err == nil {
			draft.Telephone = phone
		}
	}
	if draft.URL != "" {
		if site, err := normalizeWebsite(draft.URL); err == nil {
			draft.URL = site
		}
	}
	return draft, nil
}
