package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/agency-web/internal/entity"
)

var (
	// ErrOperatorNotFound is returned when no operator matches the lookup criteria.
	ErrOperatorNotFound = errors.New("operator not found")
	ErrEmailDuplicate   = errors.New("email already exists")
)

// OperatorsRepository declares persistence operations for agency operators.
type OperatorsRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Operator, error)
	Create(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error)
	List(ctx context.Context) ([]entity.Operator, error)
}

// PGXOperatorsRepository implements OperatorsRepository with pgx.
type PGXOperatorsRepository struct {
	pool pgxPool
}

// NewPGXOperatorsRepository instantiates an operators repository.
func NewPGXOperatorsRepository(pool *pgxpool.Pool) *PGXOperatorsRepository {
	return &PGXOperatorsRepository{pool: pool}
}

// FindByEmail fetches an operator by email if present.
func (r *PGXOperatorsRepository) FindByEmail(ctx context.Context, email string) (*entity.Operator, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, role, created_at, updated_at FROM operators WHERE LOWER(email) = LOWER($1)`, email)

	var op entity.Operator
	if err := row.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedAt, &op.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("query operator by email: %w", err)
	}
	return &op, nil
}

// Create inserts a new operator row.
func (r *PGXOperatorsRepository) Create(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO operators (email, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, email, password_hash, role, created_at, updated_at
    `, email, passwordHash, role)

	var op entity.Operator
	if err := row.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedAt, &op.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName+pgErr.Message, "operators_email_key") {
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, pgErr)
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}
	return &op, nil
}

// List returns all operators ordered by creation date (desc).
func (r *PGXOperatorsRepository) List(ctx context.Context) ([]entity.Operator, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, password_hash, role, created_at, updated_at FROM operators ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	defer rows.Close()

	var operators []entity.Operator
	for rows.Next() {
		var op entity.Operator
		if err := rows.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Role, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan operator row: %w", err)
		}
		operators = append(operators, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operators: %w", err)
	}
	return operators, nil
}
