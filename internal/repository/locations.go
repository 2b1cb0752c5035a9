package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
)

// ErrLocationNotFound indicates there is no location row for the given reference.
var ErrLocationNotFound = errors.New("client location not found")

// LocationsRepository persists client locations mirrored from the provider.
type LocationsRepository interface {
	FindByReference(ctx context.Context, reference string) (*entity.ClientLocation, error)
	Upsert(ctx context.Context, location *entity.ClientLocation) error
	List(ctx context.Context, filter dto.LocationFilter) ([]entity.ClientLocation, error)
}

// PGXLocationsRepository implements LocationsRepository using pgx.
type PGXLocationsRepository struct {
	pool pgxPool
}

// NewPGXLocationsRepository wires a pgx backed repository.
func NewPGXLocationsRepository(pool *pgxpool.Pool) *PGXLocationsRepository {
	return &PGXLocationsRepository{pool: pool}
}

const locationColumns = `
            id,
            client_id,
            brightlocal_location_id,
            location_reference,
            business_name,
            address1,
            address2,
            city,
            region,
            postcode,
            country,
            business_category_id,
            description,
            telephone,
            url,
            email,
            contact_first_name,
            contact_last_name,
            opening_hours,
            social_profiles,
            images,
            is_active,
            created_at,
            updated_at`

// FindByReference fetches a location by its agency reference.
func (r *PGXLocationsRepository) FindByReference(ctx context.Context, reference string) (*entity.ClientLocation, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+locationColumns+` FROM client_locations WHERE location_reference = $1`, reference)

	location, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("query location by reference: %w", err)
	}
	return location, nil
}

// Upsert inserts or updates a location keyed by location_reference and refreshes
// the generated columns on the passed entity.
func (r *PGXLocationsRepository) Upsert(ctx context.Context, location *entity.ClientLocation) error {
	if location == nil {
		return fmt.Errorf("location payload is nil")
	}

	query := `
        INSERT INTO client_locations (
            client_id,
            brightlocal_location_id,
            location_reference,
            business_name,
            address1,
            address2,
            city,
            region,
            postcode,
            country,
            business_category_id,
            description,
            telephone,
            url,
            email,
            contact_first_name,
            contact_last_name,
            opening_hours,
            social_profiles,
            images,
            is_active,
            updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
            $11, $12, $13, $14, $15, $16, $17,
            $18::jsonb, $19::jsonb, $20::jsonb, $21, NOW()
        )
        ON CONFLICT (location_reference) DO UPDATE SET
            client_id = COALESCE(EXCLUDED.client_id, client_locations.client_id),
            brightlocal_location_id = COALESCE(EXCLUDED.brightlocal_location_id, client_locations.brightlocal_location_id),
            business_name = EXCLUDED.business_name,
            address1 = EXCLUDED.address1,
            address2 = EXCLUDED.address2,
            city = EXCLUDED.city,
            region = EXCLUDED.region,
            postcode = EXCLUDED.postcode,
            country = EXCLUDED.country,
            business_category_id = EXCLUDED.business_category_id,
            description = EXCLUDED.description,
            telephone = EXCLUDED.telephone,
            url = EXCLUDED.url,
            email = EXCLUDED.email,
            contact_first_name = EXCLUDED.contact_first_name,
            contact_last_name = EXCLUDED.contact_last_name,
            opening_hours = EXCLUDED.opening_hours,
            social_profiles = EXCLUDED.social_profiles,
            images = EXCLUDED.images,
            is_active = EXCLUDED.is_active,
            updated_at = NOW()
        RETURNING id, created_at, updated_at;
    `

	err := r.pool.QueryRow(ctx, query,
		location.ClientID,
		location.BrightLocalLocationID,
		location.LocationReference,
		location.BusinessName,
		location.Address1,
		location.Address2,
		location.City,
		location.Region,
		location.Postcode,
		location.Country,
		location.BusinessCategoryID,
		location.Description,
		location.Telephone,
		location.URL,
		location.Email,
		location.ContactFirstName,
		location.ContactLastName,
		jsonOrDefault(location.OpeningHours, "{}"),
		jsonOrDefault(location.SocialProfiles, "{}"),
		jsonOrDefault(location.Images, "[]"),
		location.IsActive,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

// List retrieves locations matching the filter, newest first.
func (r *PGXLocationsRepository) List(ctx context.Context, filter dto.LocationFilter) ([]entity.ClientLocation, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT` + locationColumns + ` FROM client_locations`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.ClientID != "" {
		clauses = append(clauses, fmt.Sprintf("client_id = $%d", idx))
		args = append(args, filter.ClientID)
		idx++
	}
	if filter.Country != "" {
		clauses = append(clauses, fmt.Sprintf("country = UPPER($%d)", idx))
		args = append(args, filter.Country)
		idx++
	}
	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(business_name ILIKE $%d OR location_reference ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}

	if len(clauses) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY created_at DESC, business_name ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	query.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []entity.ClientLocation
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, *location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}

func scanLocation(row pgx.Row) (*entity.ClientLocation, error) {
	var (
		l              entity.ClientLocation
		openingHours   []byte
		socialProfiles []byte
		images         []byte
	)

	err := row.Scan(
		&l.ID,
		&l.ClientID,
		&l.BrightLocalLocationID,
		&l.LocationReference,
		&l.BusinessName,
		&l.Address1,
		&l.Address2,
		&l.City,
		&l.Region,
		&l.Postcode,
		&l.Country,
		&l.BusinessCategoryID,
		&l.Description,
		&l.Telephone,
		&l.URL,
		&l.Email,
		&l.ContactFirstName,
		&l.ContactLastName,
		&openingHours,
		&socialProfiles,
		&images,
		&l.IsActive,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.OpeningHours = []byte(jsonOrDefault(openingHours, "{}"))
	l.SocialProfiles = []byte(jsonOrDefault(socialProfiles, "{}"))
	l.Images = []byte(jsonOrDefault(images, "[]"))
	return &l, nil
}
