package service

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/agency-web/internal/country"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	iso3Pattern  = regexp.MustCompile(`^[A-Z]{3}$`)
	idnaProfile  = idna.Lookup
)

const (
	trackingPrefix = "utm_"
	unknownRegion  = "ZZ"
)

var allowedSocialDomains = map[string]string{
	"linkedin.com":  "linkedin",
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"tiktok.com":    "tiktok",
	"twitter.com":   "x",
	"x.com":         "x",
}

// normalizeCountry upper-cases the code and requires three ASCII letters.
func normalizeCountry(field, raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if !iso3Pattern.MatchString(code) {
		return "", validationf("%s must be ISO-3 code", field)
	}
	return code, nil
}

// normalizePhone parses raw in the region of the ISO-3 country and formats it as E.164.
func normalizePhone(raw, iso3 string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty telephone")
	}
	region, ok := country.Alpha2(iso3)
	if !ok {
		region = unknownRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", errors.New("invalid telephone")
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailPattern.MatchString(email) {
		return "", errors.New("invalid email")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !isDomainValid(domain) {
		return "", errors.New("invalid email domain")
	}
	return email, nil
}

// normalizeWebsite defaults the scheme to https, converts the host to its ASCII
// form and drops tracking parameters and fragments.
func normalizeWebsite(raw string) (string, error) {
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", err
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || !isDomainValid(host) {
		return "", errors.New("invalid website host")
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	stripTracking(u)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

func socialPlatform(host string) (string, bool) {
	host = strings.ToLower(strings.Trim(strings.TrimSpace(host), "."))
	if host == "" {
		return "", false
	}
	for domain, platform := range allowedSocialDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("unsupported url scheme")
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, trackingPrefix) || lower == "gclid" || lower == "fbclid" {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
