package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/octobees/agency-web/internal/entity"
)

func TestPGXDirectoriesRepository_UpsertBatch(t *testing.T) {
	tx := &stubTx{}
	repo := &PGXDirectoriesRepository{pool: &stubPool{
		beginTxFunc: func(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) { return tx, nil },
	}}

	err := repo.UpsertBatch(context.Background(), []entity.Directory{
		{ID: "yelp", GenericURL: "https://yelp.com", SupportedCountries: []string{"USA", "GBR"}, CountrySpecificURLs: map[string]string{"GBR": "https://yelp.co.uk"}},
		{ID: "bing", GenericURL: "https://bing.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed || len(tx.execs) != 2 {
		t.Fatalf("expected committed batch of 2, got %d execs", len(tx.execs))
	}
	if urls := tx.execs[0][3]; urls != `{"GBR":"https://yelp.co.uk"}` {
		t.Fatalf("unexpected country urls arg: %v", urls)
	}
	if urls := tx.execs[1][3]; urls != `{}` {
		t.Fatalf("expected empty json object, got %v", urls)
	}
	if countries, _ := tx.execs[1][2].([]string); countries == nil {
		t.Fatalf("expected non-nil countries slice")
	}
}

func TestPGXDirectoriesRepository_ListByCountry(t *testing.T) {
	repo := &PGXDirectoriesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					*dest[0].(*string) = "yelp"
					*dest[1].(*string) = "https://yelp.com"
					*dest[2].(*[]string) = []string{"USA", "GBR"}
					*dest[3].(*[]byte) = []byte(`{"GBR":"https://yelp.co.uk"}`)
					*dest[4].(*time.Time) = time.Now()
					return nil
				},
			}}, nil
		},
	}}

	dirs, err := repo.ListByCountry(context.Background(), "GBR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected 1 directory, got %d", len(dirs))
	}
	if got := dirs[0].URLFor("GBR"); got != "https://yelp.co.uk" {
		t.Fatalf("unexpected country url: %s", got)
	}
	if !dirs[0].Supports("USA") {
		t.Fatalf("expected directory to support USA")
	}
}
