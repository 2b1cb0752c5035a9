// Package content reads the markdown posts and case studies that back the
// blog and portfolio pages.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
)

const ext = ".md"

// ErrNotFound is returned when no file matches a slug.
var ErrNotFound = errors.New("content not found")

var (
	slugPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// Heading is an h2/h3 entry of a post outline.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Post is a parsed markdown document.
type Post struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Date           string    `json:"date"`
	Author         string    `json:"author,omitempty"`
	Category       string    `json:"category,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Excerpt        string    `json:"excerpt,omitempty"`
	CoverImage     string    `json:"cover_image,omitempty"`
	Draft          bool      `json:"-"`
	Client         string    `json:"client,omitempty"`
	Industry       string    `json:"industry,omitempty"`
	Services       []string  `json:"services,omitempty"`
	Results        []string  `json:"results,omitempty"`
	ReadingMinutes int       `json:"reading_minutes"`
	Headings       []Heading `json:"headings,omitempty"`
	HTML           string    `json:"content_html,omitempty"`
	Text           string    `json:"-"`
}

// Store reads posts from a directory on every call. Nothing is cached.
type Store struct {
	dir string
	md  goldmark.Markdown
}

// NewStore returns a store for dir. The directory is not checked until first use.
func NewStore(dir string) *Store {
	return &Store{dir: dir, md: newMarkdown()}
}

// Dir returns the directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every published post sorted by date, newest first. Dates are
// compared as strings, so only zero-padded YYYY-MM-DD values order correctly;
// anything else is logged. Files that fail to parse are logged and left out.
func (s *Store) List(ctx context.Context) ([]Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", s.dir, err)
	}

	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		slug := strings.TrimSuffix(name, ext)
		if !slugPattern.MatchString(slug) {
			slog.WarnContext(ctx, "skipping content file with unusable name", "file", name)
			continue
		}

		post, err := s.read(slug)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable content file", "file", name, "error", err)
			continue
		}
		if post.Draft {
			continue
		}
		if !datePattern.MatchString(post.Date) {
			slog.WarnContext(ctx, "post date is not YYYY-MM-DD, ordering may be wrong", "slug", slug, "date", post.Date)
		}
		posts = append(posts, *post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})
	return posts, nil
}

// Get parses the post stored under slug. Drafts are reported as ErrNotFound.
func (s *Store) Get(ctx context.Context, slug string) (*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !slugPattern.MatchString(slug) {
		return nil, ErrNotFound
	}
	post, err := s.read(slug)
	if err != nil {
		return nil, err
	}
	if post.Draft {
		return nil, ErrNotFound
	}
	return post, nil
}

// ListByTag returns the posts carrying tag, compared case-insensitively.
func (s *Store) ListByTag(ctx context.Context, tag string) ([]Post, error) {
	return s.filter(ctx, func(p Post) bool {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	})
}

// ListByCategory returns the posts in category, compared case-insensitively.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]Post, error) {
	return s.filter(ctx, func(p Post) bool {
		return strings.EqualFold(p.Category, category)
	})
}

func (s *Store) filter(ctx context.Context, keep func(Post) bool) ([]Post, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := posts[:0]
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) read(slug string) (*Post, error) {
	src, err := os.ReadFile(filepath.Join(s.dir, slug+ext))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", slug, err)
	}
	post, err := s.parse(slug, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", slug, err)
	}
	return post, nil
}
