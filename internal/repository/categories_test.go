package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/octobees/agency-web/internal/entity"
)

func TestPGXCategoriesRepository_UpsertBatchEmpty(t *testing.T) {
	repo := &PGXCategoriesRepository{pool: &stubPool{}}
	if err := repo.UpsertBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPGXCategoriesRepository_UpsertBatch(t *testing.T) {
	tx := &stubTx{}
	repo := &PGXCategoriesRepository{pool: &stubPool{
		beginTxFunc: func(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { return tx, nil },
	}}

	synced := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := repo.UpsertBatch(context.Background(), []entity.BusinessCategory{
		{ID: 503, Name: "Accountant", CountryCode: "USA", LastSyncedAt: synced},
		{ID: 504, Name: "Bakery", CountryCode: "USA"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Fatalf("expected transaction to be committed")
	}
	if len(tx.execs) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(tx.execs))
	}
	if tx.execs[0][0] != int64(503) || tx.execs[0][2] != "USA" || tx.execs[0][3] != synced {
		t.Fatalf("unexpected args: %+v", tx.execs[0])
	}
	if ts, _ := tx.execs[1][3].(time.Time); ts.IsZero() {
		t.Fatalf("expected zero sync time to be defaulted")
	}
}

func TestPGXCategoriesRepository_UpsertBatchRollsBack(t *testing.T) {
	tx := &stubTx{execErr: errors.New("boom")}
	repo := &PGXCategoriesRepository{pool: &stubPool{
		beginTxFunc: func(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { return tx, nil },
	}}

	err := repo.UpsertBatch(context.Background(), []entity.BusinessCategory{{ID: 1, Name: "A", CountryCode: "GBR"}})
	if err == nil || !strings.Contains(err.Error(), "1/GBR") {
		t.Fatalf("expected wrapped upsert error, got %v", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Fatalf("expected rollback without commit")
	}
}

func TestPGXCategoriesRepository_ListByCountry(t *testing.T) {
	var gotArgs []any
	repo := &PGXCategoriesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			gotArgs = args
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					*dest[0].(*int64) = 503
					*dest[1].(*string) = "Accountant"
					*dest[2].(*string) = "USA"
					*dest[3].(*time.Time) = time.Now()
					return nil
				},
			}}, nil
		},
	}}

	categories, err := repo.ListByCountry(context.Background(), "USA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "USA" {
		t.Fatalf("unexpected args: %+v", gotArgs)
	}
	if len(categories) != 1 || categories[0].Name != "Accountant" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}
