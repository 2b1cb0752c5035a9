package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/octobees/agency-web/internal/brightlocal"
	"github.com/octobees/agency-web/internal/dto"
	"github.com/octobees/agency-web/internal/service/scoring"
)

type websiteInspector interface {
	Inspect(ctx context.Context, rawURL string) (*dto.WebsiteReport, error)
}

// PresenceService compares where a business is listed against the directories of its country.
type PresenceService struct {
	listings *ListingsService
	website  websiteInspector
}

// NewPresenceService wires the presence audit. website may be nil to skip homepage checks.
func NewPresenceService(listings *ListingsService, website websiteInspector) *PresenceService {
	return &PresenceService{listings: listings, website: website}
}

// Audit builds the directory comparison, inspects the website when given and scores the result.
func (s *PresenceService) Audit(ctx context.Context, req dto.PresenceAuditRequest) (*dto.PresenceAuditResponse, error) {
	if req.BrightLocalLocationID <= 0 {
		return nil, validationf("brightlocal_location_id is required")
	}
	countryCode, err := normalizeCountry("country", req.Country)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.BusinessName)
	if name == "" {
		return nil, validationf("business_name is required")
	}
	var phone string
	if strings.TrimSpace(req.Telephone) != "" {
		if phone, err = normalizePhone(req.Telephone, countryCode); err != nil {
			return nil, validationf("telephone is not a valid number for %s", countryCode)
		}
	}

	var website string
	if strings.TrimSpace(req.Website) != "" {
		if website, err = normalizeWebsite(req.Website); err != nil {
			return nil, validationf("website is not a valid URL")
		}
	}

	directories, err := s.listings.DirectoriesFor(ctx, countryCode)
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.Listings(ctx, req.BrightLocalLocationID)
	if err != nil {
		return nil, err
	}

	byDirectory := make(map[string]brightlocal.Listing, len(listings))
	for _, l := range listings {
		if l.Live() {
			byDirectory[strings.ToLower(l.Directory)] = l
		}
	}

	resp := &dto.PresenceAuditResponse{
		Country:     countryCode,
		Total:       len(directories),
		Directories: make([]dto.DirectoryStatus, 0, len(directories)),
	}
	for _, d := range directories {
		status := dto.DirectoryStatus{ID: d.ID, URL: d.URLFor(countryCode)}
		if listing, ok := byDirectory[strings.ToLower(d.ID)]; ok {
			status.Listed = true
			status.ListingURL = listing.URL
			status.NAPConsistent = napConsistent(listing, name, phone, countryCode)
			resp.Listed++
			if status.NAPConsistent {
				resp.Consistent++
			}
		}
		resp.Directories = append(resp.Directories, status)
	}

	features := scoring.PresenceFeatures{
		DirectoriesTotal:   resp.Total,
		DirectoriesListed:  resp.Listed,
		ListingsConsistent: resp.Consistent,
	}

	if website != "" && s.website != nil {
		report, err := s.website.Inspect(ctx, website)
		if err != nil {
			slog.WarnContext(ctx, "website inspection failed", "website", website, "error", err)
			resp.Website = &dto.WebsiteReport{URL: website, Error: websiteUnavailable}
		} else {
			resp.Website = report
			features.Website = report.URL
			features.HasHTTPS = report.HTTPS
			features.HasTitle = report.Title != ""
			features.HasMetaDescription = report.MetaDescription != ""
			features.HasRecentPosts = report.RecentPosts
			features.Socials = report.Socials
		}
	}

	score := scoring.ComputeScore(features)
	resp.Score = score.Total
	resp.Breakdown = score.Breakdown
	return resp, nil
}

// napConsistent compares the listing's name and, when known, its phone number.
func napConsistent(listing brightlocal.Listing, name, phone, countryCode string) bool {
	if simplify(listing.Name) != simplify(name) {
		return false
	}
	if phone == "" {
		return true
	}
	listed, err := normalizePhone(listing.Telephone, countryCode)
	return err == nil && listed == phone
}

func simplify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
