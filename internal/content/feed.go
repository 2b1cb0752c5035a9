package content

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Site describes the public site for feeds and sitemaps.
type Site struct {
	Title       string
	Description string
	URL         string
}

func (s Site) abs(path string) string {
	return strings.TrimRight(s.URL, "/") + "/" + strings.TrimLeft(path, "/")
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category,omitempty"`
	Description string   `xml:"description,omitempty"`
}

// WriteRSS renders posts as an RSS 2.0 feed. Items link to /blog/{slug}.
func WriteRSS(w io.Writer, site Site, posts []Post) error {
	feed := rssFeed{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       site.Title,
			Link:        site.abs("/blog"),
			Description: site.Description,
			Language:    "en",
			AtomLink:    atomLink{Href: site.abs("/blog/rss.xml"), Rel: "self", Type: "application/rss+xml"},
		},
	}

	var newest time.Time
	for _, p := range posts {
		link := site.abs("/blog/" + p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			Author:      p.Author,
			Description: p.Excerpt,
		}
		if p.Category != "" {
			item.Categories = append(item.Categories, p.Category)
		}
		item.Categories = append(item.Categories, p.Tags...)
		if t, ok := ParseDate(p.Date); ok {
			item.PubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}
	if !newest.IsZero() {
		feed.Channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}

	return writeXML(w, feed)
}

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Path    string
	LastMod string
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap renders a sitemap for the given site-relative paths.
func WriteSitemap(w io.Writer, site Site, urls []SitemapURL) error {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, u := range urls {
		entry := sitemapURL{Loc: site.abs(u.Path)}
		if t, ok := ParseDate(u.LastMod); ok {
			entry.LastMod = t.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}
	return writeXML(w, set)
}

// ParseDate reads the YYYY-MM-DD prefix of a frontmatter date.
func ParseDate(raw string) (time.Time, bool) {
	if !datePattern.MatchString(raw) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return enc.Flush()
}
