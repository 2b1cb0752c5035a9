package content

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

const defaultSearchLimit = 10

// SearchIndex is an in-memory full-text index over posts. It is built once
// and read concurrently afterwards.
type SearchIndex struct {
	index bleve.Index
}

// SearchHit is one search result.
type SearchHit struct {
	Slug      string              `json:"slug"`
	Title     string              `json:"title"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

type indexedPost struct {
	Slug    string
	Title   string
	Excerpt string
	Body    string
	Tags    []string
}

func buildMapping() mapping.IndexMapping {
	title := bleve.NewTextFieldMapping()
	title.Analyzer = "en"
	text := bleve.NewTextFieldMapping()
	text.Analyzer = "en"

	slug := bleve.NewTextFieldMapping()
	slug.Index = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("Slug", slug)
	doc.AddFieldMappingsAt("Title", title)
	doc.AddFieldMappingsAt("Excerpt", text)
	doc.AddFieldMappingsAt("Body", text)
	doc.AddFieldMappingsAt("Tags", bleve.NewTextFieldMapping())

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// NewSearchIndex indexes posts into a fresh memory-only index.
func NewSearchIndex(posts []Post) (*SearchIndex, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, p := range posts {
		doc := indexedPost{
			Slug:    p.Slug,
			Title:   p.Title,
			Excerpt: p.Excerpt,
			Body:    p.Text,
			Tags:    p.Tags,
		}
		if err := batch.Index(p.Slug, doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index %s: %w", p.Slug, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("write search batch: %w", err)
	}
	return &SearchIndex{index: idx}, nil
}

// Search matches q against titles (boosted), excerpts, bodies and tags.
func (s *SearchIndex) Search(q string, limit int) ([]SearchHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []SearchHit{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = defaultSearchLimit
	}

	title := bleve.NewMatchQuery(q)
	title.SetField("Title")
	title.SetBoost(3)
	excerpt := bleve.NewMatchQuery(q)
	excerpt.SetField("Excerpt")
	body := bleve.NewMatchQuery(q)
	body.SetField("Body")
	tags := bleve.NewMatchQuery(q)
	tags.SetField("Tags")
	tags.SetBoost(2)

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(title, excerpt, body, tags), limit, 0, false)
	req.Fields = []string{"Title"}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("Body")

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		h := SearchHit{Slug: hit.ID, Score: hit.Score, Fragments: hit.Fragments}
		if t, ok := hit.Fields["Title"].(string); ok {
			h.Title = t
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	return s.index.Close()
}
