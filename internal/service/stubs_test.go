package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
	"github.com/octobees/agency-web/internal/repository"
)

type stubProvider struct {
	categories func(ctx context.Context, country string) ([]brightlocal.Category, error)
	dirs       func(ctx context.Context, country string) ([]brightlocal.Directory, error)
	create     func(ctx context.Context, input brightlocal.LocationInput) (int64, error)
	listings   func(ctx context.Context, id int64) ([]brightlocal.Listing, error)
	calls      int
}

func (s *stubProvider) BusinessCategories(ctx context.Context, country string) ([]brightlocal.Category, error) {
	s.calls++
	if s.categories != nil {
		return s.categories(ctx, country)
	}
	return nil, errors.New("BusinessCategories not implemented")
}

func (s *stubProvider) Directories(ctx context.Context, country string) ([]brightlocal.Directory, error) {
	s.calls++
	if s.dirs != nil {
		return s.dirs(ctx, country)
	}
	return nil, errors.New("Directories not implemented")
}

func (s *stubProvider) CreateLocation(ctx context.Context, input brightlocal.LocationInput) (int64, error) {
	s.calls++
	if s.create != nil {
		return s.create(ctx, input)
	}
	return 0, errors.New("CreateLocation not implemented")
}

func (s *stubProvider) LocationListings(ctx context.Context, id int64) ([]brightlocal.Listing, error) {
	s.calls++
	if s.listings != nil {
		return s.listings(ctx, id)
	}
	return nil, errors.New("LocationListings not implemented")
}

type memoryCategories struct {
	rows      map[string]entity.BusinessCategory
	upsertErr error
}

func (m *memoryCategories) UpsertBatch(ctx context.Context, categories []entity.BusinessCategory) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.rows == nil {
		m.rows = map[string]entity.BusinessCategory{}
	}
	for _, c := range categories {
		m.rows[fmt.Sprintf("%s/%d", c.CountryCode, c.ID)] = c
	}
	return nil
}

func (m *memoryCategories) ListByCountry(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error) {
	var out []entity.BusinessCategory
	for _, c := range m.rows {
		if c.CountryCode == countryCode {
			out = append(out, c)
		}
	}
	return out, nil
}

type memoryDirectories struct {
	rows []entity.Directory
}

func (m *memoryDirectories) UpsertBatch(ctx context.Context, directories []entity.Directory) error {
	m.rows = append(m.rows, directories...)
	return nil
}

func (m *memoryDirectories) ListByCountry(ctx context.Context, countryCode string) ([]entity.Directory, error) {
	var out []entity.Directory
	for _, d := range m.rows {
		if d.Supports(countryCode) {
			out = append(out, d)
		}
	}
	return out, nil
}

type memoryLocations struct {
	rows      map[string]*entity.ClientLocation
	upsertErr error
	findErr   error
}

func (m *memoryLocations) FindByReference(ctx context.Context, reference string) (*entity.ClientLocation, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if row, ok := m.rows[reference]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, repository.ErrLocationNotFound
}

func (m *memoryLocations) Upsert(ctx context.Context, location *entity.ClientLocation) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.rows == nil {
		m.rows = map[string]*entity.ClientLocation{}
	}
	copied := *location
	m.rows[location.LocationReference] = &copied
	return nil
}

func (m *memoryLocations) List(ctx context.Context, filter dto.LocationFilter) ([]entity.ClientLocation, error) {
	var out []entity.ClientLocation
	for _, row := range m.rows {
		out = append(out, *row)
	}
	return out, nil
}

type memoryClients struct {
	ids       map[uuid.UUID]bool
	existsErr error
}

func (m *memoryClients) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.ids[id], nil
}

func (m *memoryClients) Create(ctx context.Context, name string) (*entity.Client, error) {
	id := uuid.New()
	if m.ids == nil {
		m.ids = map[uuid.UUID]bool{}
	}
	m.ids[id] = true
	return &entity.Client{ID: id, Name: name}, nil
}
