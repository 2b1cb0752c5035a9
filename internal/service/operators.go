package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/repository"
)

// Operator roles.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

const minPasswordLength = 8

// OperatorService manages agency staff accounts.
type OperatorService struct {
	repo repository.OperatorsRepository
}

// NewOperatorService builds a new OperatorService instance.
func NewOperatorService(repo repository.OperatorsRepository) *OperatorService {
	return &OperatorService{repo: repo}
}

// ListOperators returns all operators as DTOs.
func (s *OperatorService) ListOperators(ctx context.Context) ([]dto.OperatorResponse, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	operators, err := s.repo.List(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list operators", Err: err}
	}

	responses := make([]dto.OperatorResponse, 0, len(operators))
	for _, op := range operators {
		responses = append(responses, dto.OperatorResponse{
			ID:    op.ID.String(),
			Email: op.Email,
			Role:  op.Role,
		})
	}
	return responses, nil
}

// CreateOperator hashes the password and stores a new operator.
func (s *OperatorService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = RoleOperator
	}
	if req.Role != RoleOperator && req.Role != RoleAdmin {
		return nil, validationf("role must be %q or %q", RoleOperator, RoleAdmin)
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, validationf("email is not valid")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}

	if s.repo == nil {
		return nil, ErrNotConfigured
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	op, err := s.repo.Create(ctx, email, string(hashed), req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return nil, repository.ErrEmailDuplicate
		}
		return nil, &StorageError{Op: "create operator", Err: err}
	}

	return &dto.OperatorResponse{ID: op.ID.String(), Email: op.Email, Role: op.Role}, nil
}
