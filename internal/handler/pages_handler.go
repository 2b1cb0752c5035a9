package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/content"
	"github.com/octobees/agency-web/internal/web"
)

const homeItems = 3

// PagesHandler renders the public marketing pages, blog and feeds.
type PagesHandler struct {
	posts       *content.Store
	caseStudies *content.Store
	search      *content.SearchIndex
	site        content.Site
}

// NewPagesHandler constructs a PagesHandler.
func NewPagesHandler(posts, caseStudies *content.Store, search *content.SearchIndex, site content.Site) *PagesHandler {
	return &PagesHandler{posts: posts, caseStudies: caseStudies, search: search, site: site}
}

type blogView struct {
	Posts  []content.Post
	Hits   []content.SearchHit
	Query  string
	Filter string
}

func (h *PagesHandler) render(c echo.Context, status int, name, title, description string, data any) error {
	return c.Render(status, name, web.Page{
		Title:       title,
		Description: description,
		Path:        c.Request().URL.Path,
		SiteURL:     h.site.URL,
		Data:        data,
	})
}

func (h *PagesHandler) renderError(c echo.Context, status int, message string) error {
	return h.render(c, status, "error", http.StatusText(status), "", map[string]any{
		"Status":  status,
		"Message": message,
	})
}

func (h *PagesHandler) contentError(c echo.Context, err error) error {
	if errors.Is(err, content.ErrNotFound) {
		return h.renderError(c, http.StatusNotFound, "We could not find that page.")
	}
	slog.ErrorContext(c.Request().Context(), "content unavailable", "path", c.Request().URL.Path, "error", err)
	return h.renderError(c, http.StatusInternalServerError, "Something went wrong on our side.")
}

// Home handles GET /.
func (h *PagesHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	data := map[string]any{}

	if posts, err := h.posts.List(ctx); err == nil {
		data["Posts"] = posts[:min(homeItems, len(posts))]
	} else {
		slog.WarnContext(ctx, "home page without posts", "error", err)
	}
	if studies, err := h.caseStudies.List(ctx); err == nil {
		data["CaseStudies"] = studies[:min(homeItems, len(studies))]
	} else {
		slog.WarnContext(ctx, "home page without case studies", "error", err)
	}
	return h.render(c, http.StatusOK, "home", "", "Local marketing for businesses that serve their neighbourhood.", data)
}

// Services handles GET /services.
func (h *PagesHandler) Services(c echo.Context) error {
	return h.render(c, http.StatusOK, "services", "Services", "Listings management, local SEO and websites.", nil)
}

// CaseStudies handles GET /case-studies.
func (h *PagesHandler) CaseStudies(c echo.Context) error {
	studies, err := h.caseStudies.List(c.Request().Context())
	if err != nil {
		return h.contentError(c, err)
	}
	return h.render(c, http.StatusOK, "case_studies", "Case studies", "Results we delivered for local businesses.", studies)
}

// CaseStudy handles GET /case-studies/:slug.
func (h *PagesHandler) CaseStudy(c echo.Context) error {
	study, err := h.caseStudies.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.contentError(c, err)
	}
	return h.render(c, http.StatusOK, "case_study", study.Title, study.Excerpt, study)
}

// Blog handles GET /blog with optional q, tag and category parameters.
func (h *PagesHandler) Blog(c echo.Context) error {
	ctx := c.Request().Context()
	view := blogView{Query: c.QueryParam("q")}

	var err error
	switch {
	case view.Query != "" && h.search != nil:
		view.Hits, err = h.search.Search(view.Query, 20)
	case c.QueryParam("tag") != "":
		view.Filter = "#" + c.QueryParam("tag")
		view.Posts, err = h.posts.ListByTag(ctx, c.QueryParam("tag"))
	case c.QueryParam("category") != "":
		view.Filter = c.QueryParam("category")
		view.Posts, err = h.posts.ListByCategory(ctx, c.QueryParam("category"))
	default:
		view.Query = ""
		view.Posts, err = h.posts.List(ctx)
	}
	if err != nil {
		return h.contentError(c, err)
	}
	return h.render(c, http.StatusOK, "blog", "Blog", "Notes on local SEO, listings and fast websites.", view)
}

// Post handles GET /blog/:slug.
func (h *PagesHandler) Post(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return h.contentError(c, err)
	}
	return h.render(c, http.StatusOK, "post", post.Title, post.Excerpt, post)
}

// RSS handles GET /blog/rss.xml.
func (h *PagesHandler) RSS(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "rss feed unavailable", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	var buf bytes.Buffer
	if err := content.WriteRSS(&buf, h.site, posts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

// Sitemap handles GET /sitemap.xml.
func (h *PagesHandler) Sitemap(c echo.Context) error {
	ctx := c.Request().Context()
	urls := []content.SitemapURL{
		{Path: "/"},
		{Path: "/services"},
		{Path: "/case-studies"},
		{Path: "/blog"},
		{Path: "/audit"},
	}
	if posts, err := h.posts.List(ctx); err == nil {
		for _, p := range posts {
			urls = append(urls, content.SitemapURL{Path: "/blog/" + p.Slug, LastMod: p.Date})
		}
	}
	if studies, err := h.caseStudies.List(ctx); err == nil {
		for _, s := range studies {
			urls = append(urls, content.SitemapURL{Path: "/case-studies/" + s.Slug, LastMod: s.Date})
		}
	}

	var buf bytes.Buffer
	if err := content.WriteSitemap(&buf, h.site, urls); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, buf.Bytes())
}
