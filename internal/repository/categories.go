package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/agency-web/internal/entity"
)

// CategoriesRepository persists the provider's business categories per country.
type CategoriesRepository interface {
	UpsertBatch(ctx context.Context, categories []entity.BusinessCategory) error
	ListByCountry(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error)
}

// PGXCategoriesRepository implements CategoriesRepository using pgx.
type PGXCategoriesRepository struct {
	pool pgxPool
}

// NewPGXCategoriesRepository wires a pgx backed repository.
func NewPGXCategoriesRepository(pool *pgxpool.Pool) *PGXCategoriesRepository {
	return &PGXCategoriesRepository{pool: pool}
}

const upsertCategorySQL = `
        INSERT INTO business_categories (id, name, country_code, last_synced_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id, country_code) DO UPDATE SET
            name = EXCLUDED.name,
            last_synced_at = EXCLUDED.last_synced_at;
    `

// UpsertBatch writes every category in a single transaction keyed on (id, country_code).
func (r *PGXCategoriesRepository) UpsertBatch(ctx context.Context, categories []entity.BusinessCategory) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("start category upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, category := range categories {
		syncedAt := category.LastSyncedAt
		if syncedAt.IsZero() {
			syncedAt = time.Now().UTC()
		}
		if _, err := tx.Exec(ctx, upsertCategorySQL, category.ID, category.Name, category.CountryCode, syncedAt); err != nil {
			return fmt.Errorf("upsert category %d/%s: %w", category.ID, category.CountryCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit category upsert tx: %w", err)
	}
	return nil
}

// ListByCountry returns the stored categories of a country ordered by name.
func (r *PGXCategoriesRepository) ListByCountry(ctx context.Context, countryCode string) ([]entity.BusinessCategory, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, country_code, last_synced_at
        FROM business_categories
        WHERE country_code = $1
        ORDER BY name ASC
    `, countryCode)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.BusinessCategory
	for rows.Next() {
		var c entity.BusinessCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryCode, &c.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}
