package service

import (
	"context"
	"errors"
	"testing"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/entity"
)

type stubInspector struct {
	report *dto.WebsiteReport
	err    error
	called string
}

func (s *stubInspector) Inspect(ctx context.Context, rawURL string) (*dto.WebsiteReport, error) {
	s.called = rawURL
	return s.report, s.err
}

func newPresenceFixture(listings []brightlocal.Listing) (*PresenceService, *stubProvider, *stubInspector) {
	provider := &stubProvider{
		listings: func(ctx context.Context, id int64) ([]brightlocal.Listing, error) { return listings, nil },
	}
	dirs := &memoryDirectories{rows: []entity.Directory{
		{ID: "yelp", GenericURL: "https://yelp.com", SupportedCountries: []string{"USA"}},
		{ID: "facebook", GenericURL: "https://facebook.com", SupportedCountries: []string{"USA"}},
		{ID: "bing", GenericURL: "https://bing.com", SupportedCountries: []string{"USA"}},
		{ID: "foursquare", GenericURL: "https://foursquare.com", SupportedCountries: []string{"USA"}},
	}}
	inspector := &stubInspector{report: &dto.WebsiteReport{
		URL:             "https://acme-plumbing.com/",
		HTTPS:           true,
		Title:           "Acme",
		MetaDescription: "Plumbing",
		RecentPosts:     true,
		Socials:         map[string]string{"facebook": "https://facebook.com/acme"},
	}}
	svc := NewPresenceService(NewListingsService(provider, nil, dirs, nil, nil), inspector)
	return svc, provider, inspector
}

func TestPresenceService_Audit(t *testing.T) {
	svc, _, inspector := newPresenceFixture([]brightlocal.Listing{
		{Directory: "yelp", Status: "live", URL: "https://yelp.com/biz/acme", Name: "Acme Plumbing", Telephone: "+1 415-555-1234"},
		{Directory: "Bing", Status: "found", Name: "ACME plumbing!", Telephone: "(415) 555-9999"},
		{Directory: "facebook", Status: "pending", Name: "Acme Plumbing"},
	})

	resp, err := svc.Audit(context.Background(), dto.PresenceAuditRequest{
		BrightLocalLocationID: 4242,
		Country:               "usa",
		BusinessName:          "Acme Plumbing",
		Telephone:             "(415) 555-1234",
		Website:               "acme-plumbing.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 4 || resp.Listed != 2 || resp.Consistent != 1 {
		t.Fatalf("unexpected counts: total=%d listed=%d consistent=%d", resp.Total, resp.Listed, resp.Consistent)
	}
	statuses := map[string]dto.DirectoryStatus{}
	for _, d := range resp.Directories {
		statuses[d.ID] = d
	}
	if !statuses["yelp"].NAPConsistent || statuses["yelp"].ListingURL == "" {
		t.Fatalf("expected yelp listed and consistent: %+v", statuses["yelp"])
	}
	if !statuses["bing"].Listed || statuses["bing"].NAPConsistent {
		t.Fatalf("expected bing listed with phone mismatch: %+v", statuses["bing"])
	}
	if statuses["facebook"].Listed {
		t.Fatalf("pending listings must not count as listed")
	}
	if inspector.called != "https://acme-plumbing.com/" {
		t.Fatalf("expected normalized website to be inspected, got %q", inspector.called)
	}
	if resp.Score <= 0 || resp.Score > 100 {
		t.Fatalf("score out of range: %d", resp.Score)
	}
	if resp.Breakdown["directory_coverage"] != 20 {
		t.Fatalf("expected half coverage, got %+v", resp.Breakdown)
	}
}

func TestPresenceService_AuditWebsiteFailureIsReported(t *testing.T) {
	svc, _, inspector := newPresenceFixture(nil)
	inspector.err = errors.New("fetch http://10.1.2.3/: dial tcp 10.1.2.3:80: connection refused")

	resp, err := svc.Audit(context.Background(), dto.PresenceAuditRequest{
		BrightLocalLocationID: 1,
		Country:               "USA",
		BusinessName:          "Acme",
		Website:               "https://acme.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Website == nil || resp.Website.Error != websiteUnavailable {
		t.Fatalf("expected generic website error in report, got %+v", resp.Website)
	}
	if resp.Score != 0 {
		t.Fatalf("expected zero score without listings or website, got %d", resp.Score)
	}
}

func TestPresenceService_AuditValidation(t *testing.T) {
	svc, provider, _ := newPresenceFixture(nil)

	cases := []dto.PresenceAuditRequest{
		{Country: "USA", BusinessName: "Acme"},
		{BrightLocalLocationID: 1, Country: "US", BusinessName: "Acme"},
		{BrightLocalLocationID: 1, Country: "USA"},
		{BrightLocalLocationID: 1, Country: "USA", BusinessName: "Acme", Telephone: "1"},
		{BrightLocalLocationID: 1, Country: "USA", BusinessName: "Acme", Website: "ftp://acme.com"},
	}
	for _, req := range cases {
		_, err := svc.Audit(context.Background(), req)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
	if provider.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.calls)
	}
}
