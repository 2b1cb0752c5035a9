package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/agency-web/internal/content"
)

func newContentFixture(t *testing.T) (*content.Store, *content.Store) {
	t.Helper()
	postsDir, studiesDir := t.TempDir(), t.TempDir()
	files := map[string]string{
		filepath.Join(postsDir, "listings-101.md"): `---
title: Listings 101
date: 2024-05-01
category: SEO
tags: [listings]
---
Directory listings bring *local* customers.

## Start with the big ones
`,
		filepath.Join(postsDir, "fast-sites.md"): `---
title: Fast sites win
date: 2024-06-10
category: Performance
tags: [web]
---
Speed matters for every visitor.
`,
		filepath.Join(postsDir, "pricing-2027.md"): `---
title: Pricing for 2027
date: 2026-12-01
draft: true
---
Not announced yet.
`,
		filepath.Join(studiesDir, "riverside.md"): `---
title: Riverside Dental
date: 2024-02-01
client: Riverside Dental
---
Calls doubled after the listings cleanup.
`,
	}
	for path, body := range files {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return content.NewStore(postsDir), content.NewStore(studiesDir)
}

func withSlug(c echo.Context, slug string) echo.Context {
	c.SetParamNames("slug")
	c.SetParamValues(slug)
	return c
}

func TestPostsHandler(t *testing.T) {
	e := echo.New()
	posts, _ := newContentFixture(t)
	all, err := posts.List(context.Background())
	require.NoError(t, err)
	index, err := content.NewSearchIndex(all)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	h := NewPostsHandler(posts, index)

	t.Run("list strips html", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts", "")
		require.NoError(t, h.List(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Data []struct {
				Slug string `json:"slug"`
				HTML string `json:"content_html"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Data, 2)
		assert.Equal(t, "fast-sites", payload.Data[0].Slug)
		assert.Empty(t, payload.Data[0].HTML)
	})

	t.Run("list by tag", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts?tag=LISTINGS", "")
		require.NoError(t, h.List(c))
		assert.Contains(t, rec.Body.String(), "listings-101")
		assert.NotContains(t, rec.Body.String(), "fast-sites")
	})

	t.Run("get", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts/listings-101", "")
		require.NoError(t, h.Get(withSlug(c, "listings-101")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Listings 101")
	})

	t.Run("get missing", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts/nope", "")
		require.NoError(t, h.Get(withSlug(c, "nope")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "post not found")
	})

	t.Run("get draft", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts/pricing-2027", "")
		require.NoError(t, h.Get(withSlug(c, "pricing-2027")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Not announced yet")
	})

	t.Run("search", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts/search?q=speed", "")
		require.NoError(t, h.Search(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fast-sites")
	})

	t.Run("search unavailable", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/api/posts/search?q=speed", "")
		require.NoError(t, NewPostsHandler(posts, nil).Search(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestPagesHandler(t *testing.T) {
	e := newAuditEcho(t)
	posts, studies := newContentFixture(t)
	site := content.Site{Title: "Octobees", Description: "Local marketing", URL: "https://example.com"}
	h := NewPagesHandler(posts, studies, nil, site)

	t.Run("home lists posts and studies", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/", "")
		require.NoError(t, h.Home(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Fast sites win")
		assert.Contains(t, rec.Body.String(), "Riverside Dental")
	})

	t.Run("post renders body and toc", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/blog/listings-101", "")
		require.NoError(t, h.Post(withSlug(c, "listings-101")))
		body := rec.Body.String()
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "<em>local</em>")
		assert.Contains(t, body, "Start with the big ones")
		assert.NotContains(t, body, "title: Listings 101")
	})

	t.Run("unknown post is a 404 page", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/blog/missing", "")
		require.NoError(t, h.Post(withSlug(c, "missing")))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "We could not find that page.")
	})

	t.Run("blog filtered by category", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/blog?category=performance", "")
		require.NoError(t, h.Blog(c))
		body := rec.Body.String()
		assert.Contains(t, body, "Fast sites win")
		assert.NotContains(t, body, "Listings 101")
	})

	t.Run("case study", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/case-studies/riverside", "")
		require.NoError(t, h.CaseStudy(withSlug(c, "riverside")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Calls doubled")
	})

	t.Run("rss", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/blog/rss.xml", "")
		require.NoError(t, h.RSS(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/rss+xml"))
		assert.Contains(t, rec.Body.String(), "https://example.com/blog/listings-101")
	})

	t.Run("sitemap", func(t *testing.T) {
		c, rec := newJSONContext(e, http.MethodGet, "/sitemap.xml", "")
		require.NoError(t, h.Sitemap(c))
		body := rec.Body.String()
		assert.Contains(t, body, "https://example.com/audit")
		assert.Contains(t, body, "https://example.com/case-studies/riverside")
	})
}
