package furigana

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// articleBodyID is the id of the article-body container in the source
// pages. When raw HTML is available, the serialized container element
// (tag included) is what gets segmented, so the body's own ruby
// annotations and paragraph structure survive into the segments.
const articleBodyID = "js-article-body"

// Processor enriches scraped articles with segments, render variants,
// previews, and statistics. It is read-only after construction and safe
// for concurrent use across articles.
type Processor struct {
	seg          *Segmenter
	previewChars int
	logger       *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithPreviewChars overrides the preview visible-character budget.
func WithPreviewChars(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.previewChars = n
		}
	}
}

// WithProcessorLogger sets a custom logger for the processor.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a Processor around a segmenter.
func NewProcessor(seg *Segmenter, opts ...ProcessorOption) *Processor {
	p := &Processor{
		seg:          seg,
		previewChars: DefaultPreviewChars,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// ProcessArticle fills the enrichment fields of article in place.
//
// The title source is the ruby-annotated title when present, the plain
// title otherwise. The content source is the article-body container
// extracted from the raw page HTML, falling back to the plain content
// field when the container is absent. An article with neither content
// source still gets its title enriched; the worst case for malformed
// input is degraded output, never a failure.
func (p *Processor) ProcessArticle(article *model.Article) {
	title := article.TitleWithRuby
	if title == "" {
		title = article.Title
	}
	article.TitleSegments = p.seg.Segment(title)
	article.TitleHTML = RenderToggle(article.TitleSegments)

	content := p.contentSource(article)
	article.ContentSegments = p.seg.Segment(content)
	article.ContentHTML = RenderToggle(article.ContentSegments)
	article.ContentPreviewHTML = RenderToggle(Truncate(article.ContentSegments, p.previewChars))
	article.Stats = ComputeStats(article.ContentSegments)
}

// contentSource picks the richest available content representation.
func (p *Processor) contentSource(article *model.Article) string {
	if article.RawHTML != "" {
		if body, ok := extractArticleBody(article.RawHTML); ok {
			return body
		}
		p.logger.Warn("article body container not found in raw html, falling back to plain content",
			"news_id", article.NewsID,
		)
	}
	return article.Content
}

// extractArticleBody returns the serialized article-body container from a
// full page, including the container element itself.
func extractArticleBody(rawHTML string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", false
	}

	node := findByID(doc, articleBodyID)
	if node == nil {
		return "", false
	}

	var b strings.Builder
	if err := html.Render(&b, node); err != nil {
		return "", false
	}
	return b.String(), true
}

// findByID depth-first searches for the element with the given id.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
