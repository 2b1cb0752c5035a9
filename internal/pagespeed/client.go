// Package pagespeed runs Lighthouse analyses through the PageSpeed Insights v5 API.
package pagespeed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	psi "google.golang.org/api/pagespeedonline/v5"
)

const defaultTimeout = 60 * time.Second

// Strategies accepted by Analyze.
const (
	StrategyMobile  = "mobile"
	StrategyDesktop = "desktop"
)

var categories = []string{"PERFORMANCE", "ACCESSIBILITY", "BEST_PRACTICES", "SEO"}

// Lab metrics copied from the Lighthouse audits, keyed by audit id.
var labMetrics = map[string]string{
	"first-contentful-paint":   "fcp",
	"largest-contentful-paint": "lcp",
	"total-blocking-time":      "tbt",
	"cumulative-layout-shift":  "cls",
	"speed-index":              "speed_index",
}

// Config carries the API key. Endpoint and HTTPClient are overridden in tests.
type Config struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// Report is the condensed result of one run.
type Report struct {
	URL           string
	Strategy      string
	Scores        map[string]int
	Metrics       map[string]string
	FieldCategory string
}

// Client wraps the generated PageSpeed service.
type Client struct {
	svc *psi.Service
}

// NewClient builds the API client. An empty API key is allowed; Google then
// applies the anonymous quota.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case cfg.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey), option.WithHTTPClient(&http.Client{Timeout: defaultTimeout}))
	default:
		opts = append(opts, option.WithoutAuthentication(), option.WithHTTPClient(&http.Client{Timeout: defaultTimeout}))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := psi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pagespeed service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Analyze runs a Lighthouse audit of pageURL with the given strategy.
func (c *Client) Analyze(ctx context.Context, pageURL, strategy string) (*Report, error) {
	if c == nil || c.svc == nil {
		return nil, errors.New("pagespeed client is not initialised")
	}

	resp, err := c.svc.Pagespeedapi.Runpagespeed(pageURL).
		Strategy(strings.ToUpper(strategy)).
		Category(categories...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	report := &Report{
		URL:      pageURL,
		Strategy: strategy,
		Scores:   map[string]int{},
		Metrics:  map[string]string{},
	}
	if resp.LoadingExperience != nil {
		report.FieldCategory = resp.LoadingExperience.OverallCategory
	}

	lh := resp.LighthouseResult
	if lh == nil {
		return report, nil
	}
	if lh.FinalUrl != "" {
		report.URL = lh.FinalUrl
	}
	if cats := lh.Categories; cats != nil {
		setScore(report.Scores, "performance", cats.Performance)
		setScore(report.Scores, "accessibility", cats.Accessibility)
		setScore(report.Scores, "best_practices", cats.BestPractices)
		setScore(report.Scores, "seo", cats.Seo)
	}
	for auditID, key := range labMetrics {
		audit, ok := lh.Audits[auditID]
		if !ok || audit.DisplayValue == "" {
			continue
		}
		report.Metrics[key] = strings.ReplaceAll(audit.DisplayValue, "\u00a0", " ")
	}
	return report, nil
}

func setScore(scores map[string]int, key string, cat *psi.LighthouseCategoryV5) {
	if cat == nil {
		return
	}
	if v, ok := scoreValue(cat.Score); ok {
		scores[key] = v
	}
}

// scoreValue converts a 0..1 Lighthouse score into 0..100. Scores are null
// when Lighthouse could not compute the category.
func scoreValue(raw any) (int, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	return int(math.Round(f * 100)), true
}
