package dto

import "time"

// PageSpeedRequest asks for a performance analysis of a public URL.
type PageSpeedRequest struct {
	URL      string `json:"url"`
	Strategy string `json:"strategy,omitempty"`
}

// PresenceAuditRequest compares a provider location against the directory list.
type PresenceAuditRequest struct {
	BrightLocalLocationID int64  `json:"brightlocal_location_id"`
	Country               string `json:"country"`
	BusinessName          string `json:"business_name"`
	Telephone             string `json:"telephone,omitempty"`
	Website               string `json:"website,omitempty"`
}

// DirectoryStatus is one row of the presence audit.
type DirectoryStatus struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Listed        bool   `json:"listed"`
	ListingURL    string `json:"listing_url,omitempty"`
	NAPConsistent bool   `json:"nap_consistent"`
}

// WebsiteReport summarises what was found on a business homepage.
type WebsiteReport struct {
	URL             string            `json:"url"`
	HTTPS           bool              `json:"https"`
	Title           string            `json:"title,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
	FeedURL         string            `json:"feed_url,omitempty"`
	LatestPostAt    *time.Time        `json:"latest_post_at,omitempty"`
	RecentPosts     bool              `json:"recent_posts"`
	Error           string            `json:"error,omitempty"`
}

// PresenceAuditResponse is the result of an online presence audit.
type PresenceAuditResponse struct {
	Country     string            `json:"country"`
	Total       int               `json:"total"`
	Listed      int               `json:"listed"`
	Consistent  int               `json:"consistent"`
	Directories []DirectoryStatus `json:"directories"`
	Website     *WebsiteReport    `json:"website,omitempty"`
	Score       int               `json:"score"`
	Breakdown   map[string]int    `json:"breakdown"`
}

// PageSpeedResponse carries the scores and lab metrics of a PageSpeed run.
type PageSpeedResponse struct {
	URL           string            `json:"url"`
	Strategy      string            `json:"strategy"`
	Scores        map[string]int    `json:"scores"`
	Metrics       map[string]string `json:"metrics"`
	FieldCategory string            `json:"field_category,omitempty"`
}
