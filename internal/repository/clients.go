package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/agency-web/internal/entity"
)

// ClientsRepository stores the agency customers locations are attached to.
type ClientsRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, name string) (*entity.Client, error)
}

// PGXClientsRepository implements ClientsRepository with pgx.
type PGXClientsRepository struct {
	pool pgxPool
}

func NewPGXClientsRepository(pool *pgxpool.Pool) *PGXClientsRepository {
	return &PGXClientsRepository{pool: pool}
}

// Exists reports whether a client row with the given id is present.
func (r *PGXClientsRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	row := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`, id)
	if err := row.Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query client: %w", err)
	}
	return found, nil
}

// Create inserts a client and returns the stored row.
func (r *PGXClientsRepository) Create(ctx context.Context, name string) (*entity.Client, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO clients (name) VALUES ($1) RETURNING id, name, created_at`, name)

	var client entity.Client
	if err := row.Scan(&client.ID, &client.Name, &client.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &client, nil
}
