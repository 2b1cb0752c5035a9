package entity

import "time"

// BusinessCategory is a provider category mirrored locally, unique per (ID, CountryCode).
type BusinessCategory struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CountryCode  string    `json:"country_code"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}
