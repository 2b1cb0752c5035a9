package scoring

import (
	"net/url"
	"strings"
)

const (
	categoryCoverage = "directory_coverage"
	categoryNAP      = "nap_consistency"
	categoryWebsite  = "website_quality"
	categorySocial   = "social_presence"
)

const (
	maxCoverage = 40
	maxNAP      = 25
	maxWebsite  = 20
	maxSocial   = 15
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"medium.com",
	"substack.com",
	"godaddysites.com",
	"notion.site",
	"googlepages.com",
}

// PresenceFeatures captures the online presence signals collected for a business.
type PresenceFeatures struct {
	DirectoriesTotal   int
	DirectoriesListed  int
	ListingsConsistent int
	Website            string
	HasHTTPS           bool
	HasTitle           bool
	HasMetaDescription bool
	HasRecentPosts     bool
	Socials            map[string]string
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// ComputeScore evaluates the provided features and returns a 0-100 score.
func ComputeScore(input PresenceFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryCoverage: scoreCoverage(input),
		categoryNAP:      scoreNAP(input),
		categoryWebsite:  scoreWebsiteQuality(input),
		categorySocial:   scoreSocialPresence(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreCoverage(input PresenceFeatures) int {
	if input.DirectoriesTotal <= 0 || input.DirectoriesListed <= 0 {
		return 0
	}
	listed := min(input.DirectoriesListed, input.DirectoriesTotal)
	return listed * maxCoverage / input.DirectoriesTotal
}

// scoreNAP rates how many live listings show the same name and phone as the business.
func scoreNAP(input PresenceFeatures) int {
	if input.DirectoriesListed <= 0 || input.ListingsConsistent <= 0 {
		return 0
	}
	consistent := min(input.ListingsConsistent, input.DirectoriesListed)
	return consistent * maxNAP / input.DirectoriesListed
}

func scoreWebsiteQuality(input PresenceFeatures) int {
	if strings.TrimSpace(input.Website) == "" {
		return 0
	}
	score := 0
	if hasHTTPS(input) {
		score += 5
	}
	if highQualityDomain(input.Website) {
		score += 5
	}
	if input.HasTitle {
		score += 3
	}
	if input.HasMetaDescription {
		score += 3
	}
	if input.HasRecentPosts {
		score += 4
	}
	return min(score, maxWebsite)
}

func scoreSocialPresence(input PresenceFeatures) int {
	if len(input.Socials) == 0 {
		return 0
	}

	score := 0
	normalized := normalizeSocialKeys(input.Socials)
	if normalized["facebook"] != "" {
		score += 4
	}
	if normalized["instagram"] != "" {
		score += 4
	}
	if normalized["linkedin"] != "" {
		score += 4
	}
	if normalized["youtube"] != "" || normalized["tiktok"] != "" || normalized["x"] != "" {
		score += 3
	}
	return min(score, maxSocial)
}

func normalizeSocialKeys(socials map[string]string) map[string]string {
	result := make(map[string]string, len(socials))
	for key, value := range socials {
		normalizedKey := strings.ToLower(strings.TrimSpace(key))
		if normalizedKey == "" {
			continue
		}
		result[normalizedKey] = strings.TrimSpace(value)
	}
	return result
}

func hasHTTPS(input PresenceFeatures) bool {
	if input.HasHTTPS {
		return true
	}
	site := strings.ToLower(strings.TrimSpace(input.Website))
	return strings.HasPrefix(site, "https://")
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
