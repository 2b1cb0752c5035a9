package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/pagespeed"
)

// PageSpeedAnalyzer runs one performance analysis.
type PageSpeedAnalyzer interface {
	Analyze(ctx context.Context, pageURL, strategy string) (*pagespeed.Report, error)
}

// PageSpeedService validates audit requests and proxies them to PageSpeed Insights.
type PageSpeedService struct {
	analyzer PageSpeedAnalyzer
}

// NewPageSpeedService wires the service. analyzer may be nil when the client could not be built.
func NewPageSpeedService(analyzer PageSpeedAnalyzer) *PageSpeedService {
	return &PageSpeedService{analyzer: analyzer}
}

// Analyze normalises the URL and strategy and returns category scores and lab metrics.
func (s *PageSpeedService) Analyze(ctx context.Context, req dto.PageSpeedRequest) (*dto.PageSpeedResponse, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, validationf("url is required")
	}
	target, err := normalizeWebsite(req.URL)
	if err != nil {
		return nil, validationf("url is not a valid website")
	}

	strategy := strings.ToLower(strings.TrimSpace(req.Strategy))
	switch strategy {
	case "":
		strategy = pagespeed.StrategyMobile
	case pagespeed.StrategyMobile, pagespeed.StrategyDesktop:
	default:
		return nil, validationf("strategy must be mobile or desktop")
	}

	if s.analyzer == nil {
		return nil, ErrNotConfigured
	}

	report, err := s.analyzer.Analyze(ctx, target, strategy)
	if err != nil {
		return nil, providerError("run pagespeed analysis", err)
	}
	slog.InfoContext(ctx, "pagespeed analysis finished", "url", target, "strategy", strategy, "performance", report.Scores["performance"])

	return &dto.PageSpeedResponse{
		URL:           report.URL,
		Strategy:      report.Strategy,
		Scores:        report.Scores,
		Metrics:       report.Metrics,
		FieldCategory: report.FieldCategory,
	}, nil
}
