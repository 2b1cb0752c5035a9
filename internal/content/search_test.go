package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIndex(t *testing.T) {
	posts, err := newTestStore(t).List(context.Background())
	require.NoError(t, err)

	idx, err := NewSearchIndex(posts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	hits, err := idx.Search("directories", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "local-seo-basics", hits[0].Slug)
	assert.Equal(t, "Local SEO: the basics", hits[0].Title)

	hits, err = idx.Search("speed", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "page-speed", hits[0].Slug)

	hits, err = idx.Search("   ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search("kubernetes", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
