package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/entity"
	"github.com/octobees/agency-web/internal/repository"
	"github.com/octobees/agency-web/internal/service"
)

func TestOperatorAdminHandler_List(t *testing.T) {
	e := echo.New()

	t.Run("success", func(t *testing.T) {
		repo := &operatorsStore{list: func(ctx context.Context) ([]entity.Operator, error) {
			return []entity.Operator{{ID: uuid.New(), Email: "ops@example.com", Role: "admin"}}, nil
		}}
		c, rec := newJSONContext(e, http.MethodGet, "/api/admin/operators", "")
		if err := NewOperatorAdminHandler(service.NewOperatorService(repo)).List(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ops@example.com") {
			t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Fatalf("password hash must never be returned")
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &operatorsStore{list: func(ctx context.Context) ([]entity.Operator, error) {
			return nil, errors.New("db down")
		}}
		c, rec := newJSONContext(e, http.MethodGet, "/api/admin/operators", "")
		_ = NewOperatorAdminHandler(service.NewOperatorService(repo)).List(c)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestOperatorAdminHandler_Create(t *testing.T) {
	e := echo.New()
	created := func(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error) {
		return &entity.Operator{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}, nil
	}

	tests := map[string]struct {
		body   string
		create func(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error)
		status int
	}{
		"invalid payload": {body: "{", status: http.StatusBadRequest},
		"bad role": {
			body:   `{"email":"ops@example.com","password":"long-enough","role":"root"}`,
			status: http.StatusBadRequest,
		},
		"short password": {
			body:   `{"email":"ops@example.com","password":"short"}`,
			status: http.StatusBadRequest,
		},
		"duplicate": {
			body: `{"email":"ops@example.com","password":"long-enough"}`,
			create: func(ctx context.Context, email, passwordHash, role string) (*entity.Operator, error) {
				return nil, repository.ErrEmailDuplicate
			},
			status: http.StatusConflict,
		},
		"success": {
			body:   `{"email":"ops@example.com","password":"long-enough","role":"admin"}`,
			create: created,
			status: http.StatusCreated,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &operatorsStore{create: tt.create}
			c, rec := newJSONContext(e, http.MethodPost, "/api/admin/operators", tt.body)
			if err := NewOperatorAdminHandler(service.NewOperatorService(repo)).Create(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}
