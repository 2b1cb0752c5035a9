package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
	"github.com/octobees/agency-web/internal/logx"
	"github.com/octobees/agency-web/internal/repository"
)

// ListingsProvider is the subset of the listings-management API used by the service.
type ListingsProvider interface {
	BusinessCategories(ctx context.Context, country string) ([]brightlocal.Category, error)
	Directories(ctx context.Context, country string) ([]brightlocal.Directory, error)
	CreateLocation(ctx context.Context, input brightlocal.LocationInput) (int64, error)
	LocationListings(ctx context.Context, locationID int64) ([]brightlocal.Listing, error)
}

// ListingsService keeps categories, directories and client locations in sync
// with the listings provider.
type ListingsService struct {
	provider    ListingsProvider
	categories  repository.CategoriesRepository
	directories repository.DirectoriesRepository
	locations   repository.LocationsRepository
	clients     repository.ClientsRepository
	now         func() time.Time
}

// NewListingsService wires the service. provider may be nil when no API key is configured.
func NewListingsService(provider ListingsProvider, categories repository.CategoriesRepository, directories repository.DirectoriesRepository, locations repository.LocationsRepository, clients repository.ClientsRepository) *ListingsService {
	return &ListingsService{
		provider:    provider,
		categories:  categories,
		directories: directories,
		locations:   locations,
		clients:     clients,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetCategories fetches the provider's categories for a country and upserts them.
func (s *ListingsService) GetCategories(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error) {
	code, err := normalizeCountry("country_code", countryCode)
	if err != nil {
		return nil, err
	}
	if s.provider == nil || s.categories == nil {
		return nil, ErrNotConfigured
	}

	items, err := s.provider.BusinessCategories(ctx, code)
	if err != nil {
		return nil, providerError("fetch business categories", err)
	}

	syncedAt := s.now()
	categories := make([]entity.BusinessCategory, 0, len(items))
	for _, item := range items {
		categories = append(categories, entity.BusinessCategory{
			ID:           item.ID,
			Name:         strings.TrimSpace(item.Name),
			CountryCode:  code,
			LastSyncedAt: syncedAt,
		})
	}

	if err := s.categories.UpsertBatch(ctx, categories); err != nil {
		return nil, &StorageError{Op: "store business categories", Err: err}
	}
	slog.InfoContext(ctx, "business categories synced", "country", code, "count", len(categories))
	return categories, nil
}

// CategoriesFor returns the stored categories of a country, syncing them first when none are stored.
func (s *ListingsService) CategoriesFor(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error) {
	code, err := normalizeCountry("country", countryCode)
	if err != nil {
		return nil, err
	}
	if s.categories == nil {
		return nil, ErrNotConfigured
	}

	stored, err := s.categories.ListByCountry(ctx, code)
	if err != nil {
		return nil, &StorageError{Op: "load business categories", Err: err}
	}
	if len(stored) > 0 {
		return stored, nil
	}
	return s.GetCategories(ctx, code)
}

// SyncDirectories fetches the directories supported in a country and upserts them.
func (s *ListingsService) SyncDirectories(ctx context.Context, countryCode string) ([]entity.Directory, error) {
	code, err := normalizeCountry("country", countryCode)
	if err != nil {
		return nil, err
	}
	if s.provider == nil || s.directories == nil {
		return nil, ErrNotConfigured
	}

	items, err := s.provider.Directories(ctx, code)
	if err != nil {
		return nil, providerError("fetch directories", err)
	}

	syncedAt := s.now()
	directories := make([]entity.Directory, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		countries := make([]string, 0, len(item.Countries))
		for _, c := range item.Countries {
			countries = append(countries, strings.ToUpper(strings.TrimSpace(c)))
		}
		directories = append(directories, entity.Directory{
			ID:                  item.ID,
			GenericURL:          item.URL,
			SupportedCountries:  countries,
			CountrySpecificURLs: item.CountryURLs,
			LastSyncedAt:        syncedAt,
		})
	}

	if err := s.directories.UpsertBatch(ctx, directories); err != nil {
		return nil, &StorageError{Op: "store directories", Err: err}
	}
	slog.InfoContext(ctx, "directories synced", "country", code, "count", len(directories))
	return directories, nil
}

// DirectoriesFor returns the stored directories of a country, syncing them first when none are stored.
func (s *ListingsService) DirectoriesFor(ctx context.Context, countryCode string) ([]entity.Directory, error) {
	code, err := normalizeCountry("country", countryCode)
	if err != nil {
		return nil, err
	}
	if s.directories == nil {
		return nil, ErrNotConfigured
	}

	stored, err := s.directories.ListByCountry(ctx, code)
	if err != nil {
		return nil, &StorageError{Op: "load directories", Err: err}
	}
	if len(stored) > 0 {
		return stored, nil
	}

	synced, err := s.SyncDirectories(ctx, code)
	if err != nil {
		return nil, err
	}
	supported := make([]entity.Directory, 0, len(synced))
	for _, d := range synced {
		if d.Supports(code) {
			supported = append(supported, d)
		}
	}
	return supported, nil
}

// Listings returns the provider's directory listings for a location.
func (s *ListingsService) Listings(ctx context.Context, locationID int64) ([]brightlocal.Listing, error) {
	if locationID <= 0 {
		return nil, validationf("brightlocal_location_id is required")
	}
	if s.provider == nil {
		return nil, ErrNotConfigured
	}
	listings, err := s.provider.LocationListings(ctx, locationID)
	if err != nil {
		return nil, providerError("fetch location listings", err)
	}
	return listings, nil
}

// CreateLocation registers a location with the provider and mirrors it locally.
// A local row is only written after the provider returned an id.
func (s *ListingsService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.CreateLocationResponse, error) {
	location, err := buildLocation(req)
	if err != nil {
		return nil, err
	}
	if s.provider == nil || s.locations == nil {
		return nil, ErrNotConfigured
	}

	if location.ClientID != nil {
		if err := s.requireClient(ctx, *location.ClientID); err != nil {
			return nil, err
		}
	}

	existing, err := s.locations.FindByReference(ctx, location.LocationReference)
	switch {
	case err == nil && existing.BrightLocalLocationID != nil:
		return &dto.CreateLocationResponse{
			ID:                    existing.ID.String(),
			BrightLocalLocationID: *existing.BrightLocalLocationID,
			LocationReference:     existing.LocationReference,
			AlreadyExisted:        true,
		}, nil
	case err != nil && !errors.Is(err, repository.ErrLocationNotFound):
		return nil, &StorageError{Op: "look up location reference", Err: err}
	}

	providerID, err := s.provider.CreateLocation(ctx, locationInput(location))
	if err != nil {
		return nil, providerError("create location", err)
	}

	location.BrightLocalLocationID = &providerID
	if err := s.locations.Upsert(ctx, location); err != nil {
		logx.Critical(ctx, "location created with provider but not stored locally",
			"location_reference", location.LocationReference,
			"brightlocal_location_id", providerID,
			"error", err,
		)
		return nil, &InconsistentStateError{
			LocationReference:  location.LocationReference,
			ProviderLocationID: providerID,
			Err:                err,
		}
	}

	slog.InfoContext(ctx, "location created",
		"location_reference", location.LocationReference,
		"brightlocal_location_id", providerID,
	)
	return &dto.CreateLocationResponse{
		ID:                    location.ID.String(),
		BrightLocalLocationID: providerID,
		LocationReference:     location.LocationReference,
	}, nil
}

// requireClient rejects client ids that have no row in clients, so the
// provider is never asked to create a location that cannot be stored.
func (s *ListingsService) requireClient(ctx context.Context, id uuid.UUID) error {
	if s.clients == nil {
		return ErrNotConfigured
	}
	found, err := s.clients.Exists(ctx, id)
	if err != nil {
		return &StorageError{Op: "look up client", Err: err}
	}
	if !found {
		return validationf("client_id does not match a known client")
	}
	return nil
}

// ListLocations returns stored locations for the operator console.
func (s *ListingsService) ListLocations(ctx context.Context, filter dto.LocationFilter) ([]entity.ClientLocation, error) {
	if s.locations == nil {
		return nil, ErrNotConfigured
	}
	if filter.ClientID != "" {
		if _, err := uuid.Parse(filter.ClientID); err != nil {
			return nil, validationf("client_id must be a UUID")
		}
	}
	locations, err := s.locations.List(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "list locations", Err: err}
	}
	return locations, nil
}

func buildLocation(req dto.CreateLocationRequest) (*entity.ClientLocation, error) {
	required := map[string]string{
		"location_reference": req.LocationReference,
		"business_name":      req.BusinessName,
		"address1":           req.Address1,
		"description":        req.Description,
		"telephone":          req.Telephone,
	}
	for _, field := range []string{"location_reference", "business_name", "address1", "description", "telephone"} {
		if strings.TrimSpace(required[field]) == "" {
			return nil, validationf("%s is required", field)
		}
	}

	countryCode, err := normalizeCountry("country", req.Country)
	if err != nil {
		return nil, err
	}
	if req.BusinessCategoryID <= 0 {
		return nil, validationf("business_category_id is required")
	}

	telephone, err := normalizePhone(req.Telephone, countryCode)
	if err != nil {
		return nil, validationf("telephone is not a valid number for %s", countryCode)
	}

	location := &entity.ClientLocation{
		LocationReference:  strings.TrimSpace(req.LocationReference),
		BusinessName:       strings.TrimSpace(req.BusinessName),
		Address1:           strings.TrimSpace(req.Address1),
		Address2:           optional(req.Address2),
		City:               optional(req.City),
		Region:             optional(req.Region),
		Postcode:           optional(req.Postcode),
		Country:            countryCode,
		BusinessCategoryID: req.BusinessCategoryID,
		Description:        strings.TrimSpace(req.Description),
		Telephone:          telephone,
		ContactFirstName:   optional(req.ContactFirstName),
		ContactLastName:    optional(req.ContactLastName),
		IsActive:           true,
	}

	if strings.TrimSpace(req.ClientID) != "" {
		clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
		if err != nil {
			return nil, validationf("client_id must be a UUID")
		}
		location.ClientID = &clientID
	}
	if strings.TrimSpace(req.URL) != "" {
		website, err := normalizeWebsite(req.URL)
		if err != nil {
			return nil, validationf("url is not a valid website")
		}
		location.URL = &website
	}
	if strings.TrimSpace(req.Email) != "" {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, validationf("email is not valid")
		}
		location.Email = &email
	}

	blobs := []struct {
		field string
		raw   json.RawMessage
		dst   *json.RawMessage
	}{
		{"opening_hours", req.OpeningHours, &location.OpeningHours},
		{"social_profiles", req.SocialProfiles, &location.SocialProfiles},
		{"images", req.Images, &location.Images},
	}
	for _, b := range blobs {
		if len(b.raw) == 0 || string(b.raw) == "null" {
			continue
		}
		if !json.Valid(b.raw) {
			return nil, validationf("%s must be valid JSON", b.field)
		}
		*b.dst = b.raw
	}

	return location, nil
}

func locationInput(l *entity.ClientLocation) brightlocal.LocationInput {
	return brightlocal.LocationInput{
		BusinessName:       l.BusinessName,
		LocationReference:  l.LocationReference,
		URL:                deref(l.URL),
		Description:        l.Description,
		Telephone:          l.Telephone,
		Email:              deref(l.Email),
		ContactFirstName:   deref(l.ContactFirstName),
		ContactLastName:    deref(l.ContactLastName),
		BusinessCategoryID: l.BusinessCategoryID,
		Address: brightlocal.Address{
			Address1: l.Address1,
			Address2: deref(l.Address2),
			City:     deref(l.City),
			Region:   deref(l.Region),
			Postcode: deref(l.Postcode),
			Country:  l.Country,
		},
		OpeningHours:   l.OpeningHours,
		SocialProfiles: l.SocialProfiles,
		Images:         l.Images,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
