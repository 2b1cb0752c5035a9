package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/agency-web/internal/entity"
)

// DirectoriesRepository persists the citation directories known to the provider.
type DirectoriesRepository interface {
	UpsertBatch(ctx context.Context, directories []entity.Directory) error
	ListByCountry(ctx context.Context, countryCode string) ([]entity.Directory, error)
}

// PGXDirectoriesRepository implements DirectoriesRepository using pgx.
type PGXDirectoriesRepository struct {
	pool pgxPool
}

// NewPGXDirectoriesRepository wires a pgx backed repository.
func NewPGXDirectoriesRepository(pool *pgxpool.Pool) *PGXDirectoriesRepository {
	return &PGXDirectoriesRepository{pool: pool}
}

const upsertDirectorySQL = `
        INSERT INTO directories (id, generic_url, supported_countries, country_specific_urls, last_synced_at)
        VALUES ($1, $2, $3, $4::jsonb, $5)
        ON CONFLICT (id) DO UPDATE SET
            generic_url = EXCLUDED.generic_url,
            supported_countries = EXCLUDED.supported_countries,
            country_specific_urls = EXCLUDED.country_specific_urls,
            last_synced_at = EXCLUDED.last_synced_at;
    `

// UpsertBatch writes every directory in a single transaction keyed on id.
func (r *PGXDirectoriesRepository) UpsertBatch(ctx context.Context, directories []entity.Directory) error {
	if len(directories) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start directory upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, dir := range directories {
		urls := dir.CountrySpecificURLs
		if urls == nil {
			urls = map[string]string{}
		}
		urlsJSON, err := json.Marshal(urls)
		if err != nil {
			return fmt.Errorf("marshal country urls for %s: %w", dir.ID, err)
		}
		countries := dir.SupportedCountries
		if countries == nil {
			countries = []string{}
		}
		syncedAt := dir.LastSyncedAt
		if syncedAt.IsZero() {
			syncedAt = time.Now().UTC()
		}

		if _, err := tx.Exec(ctx, upsertDirectorySQL, dir.ID, dir.GenericURL, countries, string(urlsJSON), syncedAt); err != nil {
			return fmt.Errorf("upsert directory %s: %w", dir.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit directory upsert tx: %w", err)
	}
	return nil
}

// ListByCountry returns the directories that support the given country.
func (r *PGXDirectoriesRepository) ListByCountry(ctx context.Context, countryCode string) ([]entity.Directory, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, generic_url, supported_countries, country_specific_urls, last_synced_at
        FROM directories
        WHERE $1 = ANY(supported_countries)
        ORDER BY id ASC
    `, countryCode)
	if err != nil {
		return nil, fmt.Errorf("list directories: %w", err)
	}
	defer rows.Close()

	var directories []entity.Directory
	for rows.Next() {
		var (
			d       entity.Directory
			urlsRaw []byte
		)
		if err := rows.Scan(&d.ID, &d.GenericURL, &d.SupportedCountries, &urlsRaw, &d.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		if len(urlsRaw) > 0 {
			if err := json.Unmarshal(urlsRaw, &d.CountrySpecificURLs); err != nil {
				return nil, fmt.Errorf("unmarshal country urls for %s: %w", d.ID, err)
			}
		}
		directories = append(directories, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directories: %w", err)
	}
	return directories, nil
}
