package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/octobees/agency-web/internal/brightlocal"
)

var (
	// ErrInconsistentState marks a provider write whose local mirror could not be stored.
	ErrInconsistentState = errors.New("provider and local store are out of sync")

	// ErrNotConfigured is returned when a dependency was not configured at startup.
	ErrNotConfigured = errors.New("service is not configured")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ProviderError wraps a failed call to an upstream API.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Message    string
	Timeout    bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// HTTPStatus is the status returned to our caller: 504 on timeouts, 502 otherwise.
func (e *ProviderError) HTTPStatus() int {
	if e.Timeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// StorageError wraps a failed read or write against the local store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// InconsistentStateError is returned when the provider accepted a location but
// the local upsert failed. It matches ErrInconsistentState with errors.Is.
type InconsistentStateError struct {
	LocationReference  string
	ProviderLocationID int64
	Err                error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("location %q created with provider id %d but not stored locally: %v",
		e.LocationReference, e.ProviderLocationID, e.Err)
}

func (e *InconsistentStateError) Unwrap() []error {
	return []error{ErrInconsistentState, e.Err}
}

func providerError(op string, err error) error {
	var apiErr *brightlocal.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Op:         op,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var transportErr *brightlocal.TransportError
	if errors.As(err, &transportErr) {
		msg := "provider unreachable"
		if transportErr.Timeout {
			msg = "provider timed out"
		}
		return &ProviderError{Op: op, Message: msg, Timeout: transportErr.Timeout, Err: err}
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		msg := googleErr.Message
		if msg == "" {
			msg = http.StatusText(googleErr.Code)
		}
		return &ProviderError{
			Op:         op,
			StatusCode: googleErr.Code,
			Body:       googleErr.Body,
			Message:    msg,
			Err:        err,
		}
	}
	if isTimeout(err) {
		return &ProviderError{Op: op, Message: "provider timed out", Timeout: true, Err: err}
	}
	return &ProviderError{Op: op, Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
