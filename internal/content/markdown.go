package content

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

const (
	wordsPerMinute = 200
	excerptRunes   = 180
)

var delimiter = []byte("---")

// rawDate keeps the frontmatter date exactly as written so ordering stays a
// plain string comparison, whatever YAML would resolve the scalar to.
type rawDate string

func (d *rawDate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("date must be a scalar, got %v", node.Tag)
	}
	*d = rawDate(strings.TrimSpace(node.Value))
	return nil
}

type frontmatter struct {
	Title      string   `yaml:"title"`
	Date       rawDate  `yaml:"date"`
	Author     string   `yaml:"author"`
	Category   string   `yaml:"category"`
	Tags       []string `yaml:"tags"`
	Excerpt    string   `yaml:"excerpt"`
	CoverImage string   `yaml:"coverImage"`
	Draft      bool     `yaml:"draft"`

	// case studies
	Client   string   `yaml:"client"`
	Industry string   `yaml:"industry"`
	Services []string `yaml:"services"`
	Results  []string `yaml:"results"`
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// splitFrontmatter separates a leading "---" delimited YAML block from the body.
// Files without one are all body.
func splitFrontmatter(src []byte) (meta, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	trimmed := bytes.TrimLeft(src, " \t\r\n")
	if !bytes.HasPrefix(trimmed, delimiter) {
		return nil, src, nil
	}

	rest := trimmed[len(delimiter):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return nil, src, nil
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), delimiter) {
			return rest[:offset], rest[next:], nil
		}
		offset = next
	}
	return nil, nil, errors.New("frontmatter is not closed")
}

func (s *Store) parse(slug string, src []byte) (*Post, error) {
	metaRaw, body, err := splitFrontmatter(src)
	if err != nil {
		return nil, err
	}

	var meta frontmatter
	if len(metaRaw) > 0 {
		if err := yaml.Unmarshal(metaRaw, &meta); err != nil {
			return nil, fmt.Errorf("decode frontmatter: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := s.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	post := &Post{
		Slug:       slug,
		Title:      strings.TrimSpace(meta.Title),
		Date:       string(meta.Date),
		Author:     meta.Author,
		Category:   meta.Category,
		Tags:       meta.Tags,
		Excerpt:    strings.TrimSpace(meta.Excerpt),
		CoverImage: meta.CoverImage,
		Draft:      meta.Draft,
		Client:     meta.Client,
		Industry:   meta.Industry,
		Services:   meta.Services,
		Results:    meta.Results,
		HTML:       buf.String(),
	}
	if post.Title == "" {
		post.Title = slug
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	text := doc.Text()
	post.Text = strings.Join(strings.Fields(text), " ")
	post.ReadingMinutes = readingMinutes(text)

	doc.Find("h2, h3").Each(func(_ int, sel *goquery.Selection) {
		level := 2
		if goquery.NodeName(sel) == "h3" {
			level = 3
		}
		id, _ := sel.Attr("id")
		post.Headings = append(post.Headings, Heading{
			Level: level,
			ID:    id,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})

	if post.Excerpt == "" {
		first := strings.Join(strings.Fields(doc.Find("p").First().Text()), " ")
		post.Excerpt = truncate(first, excerptRunes)
	}
	return post, nil
}

func readingMinutes(text string) int {
	words := len(strings.Fields(text))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
