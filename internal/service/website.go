package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/octobees/agency-web/internal/dto"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxPageBytes       = 2 << 20
	recentPostWindow   = 90 * 24 * time.Hour
	userAgent          = "agency-web-audit/1.0"
	maxRedirects       = 5

	// Messages placed in WebsiteReport.Error; the underlying cause is only logged.
	websiteUnavailable = "website could not be inspected"
	feedUnavailable    = "feed could not be read"
)

// errBlockedAddress is returned when a website resolves to an address that is
// not publicly routable.
var errBlockedAddress = errors.New("address is not publicly routable")

// carrierNAT is the shared address space of RFC 6598, not covered by netip.Addr.IsPrivate.
var carrierNAT = netip.MustParsePrefix("100.64.0.0/10")

// HTTPClient abstracts HTTP requests so website inspection can be stubbed.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebsiteInspector fetches a homepage and extracts the signals used by the presence audit.
type WebsiteInspector struct {
	client HTTPClient
	now    func() time.Time
}

// NewWebsiteInspector builds an inspector. A nil client gets a default with a
// short timeout that only dials public addresses, redirects included.
func NewWebsiteInspector(client HTTPClient) *WebsiteInspector {
	if client == nil {
		client = publicHTTPClient()
	}
	return &WebsiteInspector{client: client, now: time.Now}
}

func publicHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			addr, err := netip.ParseAddr(host)
			if err != nil {
				return err
			}
			if !isPublicAddr(addr) {
				return fmt.Errorf("%w: %s", errBlockedAddress, addr)
			}
			return nil
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:   defaultHTTPTimeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// isPublicAddr rejects loopback, private, link-local, multicast, unspecified
// and carrier-grade NAT addresses.
func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() {
		return false
	}
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsUnspecified(),
		addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(), addr.IsMulticast():
		return false
	}
	return !carrierNAT.Contains(addr)
}

// Inspect fetches rawURL and reports its title, meta description, social links and feed recency.
func (w *WebsiteInspector) Inspect(ctx context.Context, rawURL string) (*dto.WebsiteReport, error) {
	target, err := normalizeWebsite(rawURL)
	if err != nil {
		return nil, validationf("website is not a valid URL")
	}

	resp, err := w.get(ctx, target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	base, _ := url.Parse(target)
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse homepage: %w", err)
	}

	report := &dto.WebsiteReport{
		URL:             base.String(),
		HTTPS:           base.Scheme == "https",
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
		Socials:         map[string]string{},
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		link := resolve(base, s.AttrOr("href", ""))
		if link == nil {
			return
		}
		platform, ok := socialPlatform(link.Hostname())
		if !ok {
			return
		}
		if _, seen := report.Socials[platform]; !seen {
			stripTracking(link)
			report.Socials[platform] = link.String()
		}
	})

	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		kind := strings.ToLower(s.AttrOr("type", ""))
		if !strings.Contains(kind, "rss") && !strings.Contains(kind, "atom") {
			return true
		}
		if feed := resolve(base, s.AttrOr("href", "")); feed != nil {
			report.FeedURL = feed.String()
			return false
		}
		return true
	})

	if report.FeedURL != "" {
		latest, err := w.latestPost(ctx, report.FeedURL)
		if err != nil {
			slog.WarnContext(ctx, "feed inspection failed", "feed_url", report.FeedURL, "error", err)
			report.Error = feedUnavailable
		} else if latest != nil {
			report.LatestPostAt = latest
			report.RecentPosts = w.now().Sub(*latest) <= recentPostWindow
		}
	}

	return report, nil
}

func (w *WebsiteInspector) latestPost(ctx context.Context, feedURL string) (*time.Time, error) {
	resp, err := w.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var latest *time.Time
	for _, item := range feed.Items {
		ts := item.PublishedParsed
		if ts == nil {
			ts = item.UpdatedParsed
		}
		if ts != nil && (latest == nil || ts.After(*latest)) {
			latest = ts
		}
	}
	return latest, nil
}

func (w *WebsiteInspector) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}
	return resp, nil
}

func resolve(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return nil
	}
	return abs
}
