package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/agency-web/internal/auth"
	"github.com/octobees/agency-web/internal/repository"
)

// AuthService coordinates operator credential validation and token issuance.
type AuthService struct {
	operators repository.OperatorsRepository
	jwt       *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(operators repository.OperatorsRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{operators: operators, jwt: jwtManager}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", validationf("email and password must not be empty")
	}
	if s.operators == nil || s.jwt == nil {
		return "", ErrNotConfigured
	}

	op, err := s.operators.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", &StorageError{Op: "find operator", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(op.ID.String(), op.Email, op.Role)
}
