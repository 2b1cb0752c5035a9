package entity

import "time"

// Directory is a citation site the provider can list a business on.
type Directory struct {
	ID                  string            `json:"id"`
	GenericURL          string            `json:"generic_url"`
	SupportedCountries  []string          `json:"supported_countries"`
	CountrySpecificURLs map[string]string `json:"country_specific_urls"`
	LastSyncedAt        time.Time         `json:"last_synced_at"`
}

// URLFor returns the country specific URL when one exists.
func (d Directory) URLFor(country string) string {
	if u, ok := d.CountrySpecificURLs[country]; ok && u != "" {
		return u
	}
	return d.GenericURL
}

// Supports reports whether the directory lists businesses in the given country.
func (d Directory) Supports(country string) bool {
	for _, c := range d.SupportedCountries {
		if c == country {
			return true
		}
	}
	return false
}
