package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/agency-web/internal/content"
)

// PostsHandler serves blog posts as JSON.
type PostsHandler struct {
	posts  *content.Store
	search *content.SearchIndex
}

// NewPostsHandler constructs a PostsHandler. search may be nil when indexing failed at startup.
func NewPostsHandler(posts *content.Store, search *content.SearchIndex) *PostsHandler {
	return &PostsHandler{posts: posts, search: search}
}

// List handles GET /api/posts with optional tag or category filters.
func (h *PostsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		posts []content.Post
		err   error
	)
	switch {
	case c.QueryParam("tag") != "":
		posts, err = h.posts.ListByTag(ctx, c.QueryParam("tag"))
	case c.QueryParam("category") != "":
		posts, err = h.posts.ListByCategory(ctx, c.QueryParam("category"))
	default:
		posts, err = h.posts.List(ctx)
	}
	if err != nil {
		return writeServiceError(c, err)
	}

	// Listings carry metadata only.
	for i := range posts {
		posts[i].HTML = ""
	}
	return Success(c, http.StatusOK, "posts retrieved", posts)
}

// Get handles GET /api/posts/:slug.
func (h *PostsHandler) Get(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return Error(c, http.StatusNotFound, "post not found")
		}
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "post retrieved", post)
}

// Search handles GET /api/posts/search?q=&limit=.
func (h *PostsHandler) Search(c echo.Context) error {
	if h.search == nil {
		return Error(c, http.StatusServiceUnavailable, "search is not available")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	hits, err := h.search.Search(c.QueryParam("q"), limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return Success(c, http.StatusOK, "search complete", hits)
}
