package brightlocal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiKeyHeader   = "x-api-key"
	defaultTimeout = 30 * time.Second
)

// Config carries the provider credentials. It is passed explicitly instead of read from the environment.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client talks to the listings-management provider. It never retries.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type requestIDKey struct{}

// WithRequestID stores a request id that will be forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func requestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

// NewClient builds a provider client. A nil httpClient gets a client with the default timeout.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("provider base url must not be empty")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("provider api key must not be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// BusinessCategories lists the provider categories available in a country (ISO-3).
func (c *Client) BusinessCategories(ctx context.Context, country string) ([]Category, error) {
	var resp categoriesResponse
	if err := c.do(ctx, http.MethodGet, "/business-categories/"+url.PathEscape(country), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Directories lists the citation directories supported for a country (ISO-3).
func (c *Client) Directories(ctx context.Context, country string) ([]Directory, error) {
	path := "/directories"
	if country != "" {
		path += "?" + url.Values{"country": {country}}.Encode()
	}
	var resp directoriesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// CreateLocation registers a location and returns the provider's location id.
func (c *Client) CreateLocation(ctx context.Context, input LocationInput) (int64, error) {
	var resp createLocationResponse
	if err := c.do(ctx, http.MethodPost, "/locations", input, &resp); err != nil {
		return 0, err
	}
	if resp.LocationID <= 0 {
		return 0, &APIError{StatusCode: http.StatusOK, Message: "provider response missing location_id"}
	}
	return resp.LocationID, nil
}

// LocationListings returns the directory listings the provider found for a location.
func (c *Client) LocationListings(ctx context.Context, locationID int64) ([]Listing, error) {
	var resp listingsResponse
	path := "/locations/" + strconv.FormatInt(locationID, 10) + "/listings"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal provider payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := requestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read provider response: %w", err), Timeout: isTimeout(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
			Message:    extractProviderError(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data), Message: "could not decode provider response"}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func extractProviderError(data []byte) string {
	if len(bytes.TrimSpace(data)) == 0 {
		return "provider returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []any  `json:"errors"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		case len(payload.Errors) > 0:
			parts := make([]string, 0, len(payload.Errors))
			for _, e := range payload.Errors {
				parts = append(parts, fmt.Sprint(e))
			}
			return strings.Join(parts, "; ")
		}
	}
	return string(data)
}
