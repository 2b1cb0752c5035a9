package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
	"github.com/octobees/agency-web/internal/pagespeed"
	"github.com/octobees/agency-web/internal/places"
	"github.com/octobees/agency-web/internal/repository"
)

type fakeProvider struct {
	categories func(ctx context.Context, country string) ([]brightlocal.Category, error)
	dirs       func(ctx context.Context, country string) ([]brightlocal.Directory, error)
	create     func(ctx context.Context, input brightlocal.LocationInput) (int64, error)
	listings   func(ctx context.Context, id int64) ([]brightlocal.Listing, error)
	calls      int
}

func (f *fakeProvider) BusinessCategories(ctx context.Context, country string) ([]brightlocal.Category, error) {
	f.calls++
	if f.categories != nil {
		return f.categories(ctx, country)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) Directories(ctx context.Context, country string) ([]brightlocal.Directory, error) {
	f.calls++
	if f.dirs != nil {
		return f.dirs(ctx, country)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeProvider) CreateLocation(ctx context.Context, input brightlocal.LocationInput) (int64, error) {
	f.calls++
	if f.create != nil {
		return f.create(ctx, input)
	}
	return 0, errors.New("not implemented")
}

func (f *fakeProvider) LocationListings(ctx context.Context, id int64) ([]brightlocal.Listing, error) {
	f.calls++
	if f.listings != nil {
		return f.listings(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type categoriesStore struct {
	rows []entity.BusinessCategory
}

func (s *categoriesStore) UpsertBatch(ctx context.Context, categories []entity.BusinessCategory) error {
	s.rows = append(s.rows, categories...)
	return nil
}

func (s *categoriesStore) ListByCountry(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error) {
	var out []entity.BusinessCategory
	for _, c := range s.rows {
		if c.CountryCode == countryCode {
			out = append(out, c)
		}
	}
	return out, nil
}

type directoriesStore struct {
	rows []entity.Directory
}

func (s *directoriesStore) UpsertBatch(ctx context.Context, directories []entity.Directory) error {
	s.rows = append(s.rows, directories...)
	return nil
}

func (s *directoriesStore) ListByCountry(ctx context.Context, countryCode string) ([]entity.Directory, error) {
	var out []entity.Directory
	for _, d := range s.rows {
		if d.Supports(countryCode) {
			out = append(out, d)
		}
	}
	return out, nil
}

type locationsStore struct {
	rows      map[string]entity.ClientLocation
	upsertErr error
	lastQuery dto.LocationFilter
}

func (s *locationsStore) FindByReference(ctx context.Context, reference string) (*entity.ClientLocation, error) {
	if row, ok := s.rows[reference]; ok {
		return &row, nil
	}
	return nil, repository.ErrLocationNotFound
}

func (s *locationsStore) Upsert(ctx context.Context, location *entity.ClientLocation) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if s.rows == nil {
		s.rows = map[string]entity.ClientLocation{}
	}
	s.rows[location.LocationReference] = *location
	return nil
}

func (s *locationsStore) List(ctx context.Context, filter dto.LocationFilter) ([]entity.ClientLocation, error) {
	s.lastQuery = filter
	out := make([]entity.ClientLocation, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

type operatorsStore struct {
	findByEmail func(ctx context.Context, email string) (*entity.Operator, error)
	create      func(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error)
	list        func(ctx context.Context) ([]entity.Operator, error)
}

func (s *operatorsStore) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	if s.findByEmail != nil {
		return s.findByEmail(ctx, email)
	}
	return nil, repository.ErrOperatorNotFound
}

func (s *operatorsStore) Create(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error) {
	if s.create != nil {
		return s.create(ctx, email, passwordHash, role)
	}
	return nil, errors.New("not implemented")
}

func (s *operatorsStore) List(ctx context.Context) ([]entity.Operator, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, errors.New("not implemented")
}

type fakeAnalyzer struct {
	report *pagespeed.Report
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, pageURL, strategy string) (*pagespeed.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.report
	r.URL, r.Strategy = pageURL, strategy
	return &r, nil
}

type fakePlaces struct {
	predictions []places.Prediction
	draft       *places.Draft
	err         error
}

func (f *fakePlaces) Autocomplete(ctx context.Context, input, regionCode, sessionToken string) ([]places.Prediction, error) {
	return f.predictions, f.err
}

func (f *fakePlaces) Details(ctx context.Context, placeID, sessionToken string) (*places.Draft, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.draft
	d.PlaceID = placeID
	return &d, nil
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newFormContext(e *echo.Echo, target, form string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
