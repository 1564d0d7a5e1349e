package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Article represents one NHK News Web Easy article.
// The scraping layer fills the raw fields; the furigana pipeline adds the
// enriched fields; the site generator consumes both.
//
// Design decision: We keep raw and enriched fields on one struct rather than
// introducing a separate EnrichedArticle type because the store persists a
// single JSON record per article and every consumer reads a subset of the
// same record. An article that has not been processed simply has empty
// enriched fields.
type Article struct {
	// URL is the canonical article URL on news.web.nhk.
	URL string `json:"url"`

	// NewsID is the NHK news identifier ("k10" followed by digits).
	NewsID string `json:"news_id,omitempty"`

	// Title is the plain article title without ruby markup.
	Title string `json:"title"`

	// TitleWithRuby is the title as HTML containing <ruby> annotations.
	// Empty when the feed did not supply an annotated title.
	TitleWithRuby string `json:"title_with_ruby,omitempty"`

	// Content is the plain-text article body with paragraphs separated
	// by blank lines. Used as a fallback when RawHTML is unavailable.
	Content string `json:"content,omitempty"`

	// RawHTML is the full article page HTML as fetched, verbatim.
	// The furigana pipeline extracts the article-body container from it.
	RawHTML string `json:"raw_html,omitempty"`

	// Date is the publication date key from the feed (e.g. "2025-08-20").
	Date string `json:"date,omitempty"`

	// PublicationTime is the precise publication timestamp from the feed.
	PublicationTime string `json:"publication_time,omitempty"`

	// ScrapedAt is the RFC3339 timestamp of when the article was fetched.
	ScrapedAt string `json:"scraped_at,omitempty"`

	// HasVoice indicates the article has an audio narration.
	HasVoice bool `json:"has_voice,omitempty"`

	// HasImage indicates the article has an accompanying image.
	HasImage bool `json:"has_image,omitempty"`

	// ImageURL is the resolved image URL, preferring the easy-news image.
	ImageURL string `json:"image_url,omitempty"`

	// ImageURI is the raw easy-news image URI from the feed.
	ImageURI string `json:"image_uri,omitempty"`

	// ImageSource records where the image URL came from: "easy", "web",
	// or "none".
	ImageSource string `json:"image_source,omitempty"`

	// LocalImagePath is the site-relative path of the downloaded image,
	// empty when no image was downloaded.
	LocalImagePath string `json:"local_image_path,omitempty"`

	// TitleSegments is the segmented title produced by the furigana engine.
	TitleSegments []Segment `json:"title_segments,omitempty"`

	// TitleHTML is the three-variant toggle HTML for the title.
	TitleHTML string `json:"title_html,omitempty"`

	// ContentSegments is the segmented article body.
	ContentSegments []Segment `json:"content_segments,omitempty"`

	// ContentHTML is the three-variant toggle HTML for the full body.
	ContentHTML string `json:"content_html,omitempty"`

	// ContentPreviewHTML is the truncated toggle HTML used on index cards.
	ContentPreviewHTML string `json:"content_preview_html,omitempty"`

	// Stats holds the kanji statistics computed from ContentSegments.
	Stats *Stats `json:"stats,omitempty"`
}

// newsIDPattern matches NHK news identifiers: "k10" followed by digits.
var newsIDPattern = regexp.MustCompile(`^k10\d+$`)

// slugIDPattern extracts the numeric part of a news ID from an article URL.
var slugIDPattern = regexp.MustCompile(`k10(\d+)`)

// slugStripPattern removes characters that are unsafe in a file-name slug.
var slugStripPattern = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

// slugDashPattern collapses whitespace and dash runs into single dashes.
var slugDashPattern = regexp.MustCompile(`[-\s]+`)

// maxSlugLength limits title-derived slugs to keep file names manageable.
const maxSlugLength = 50

// ParseNewsID validates an NHK news identifier.
// Valid IDs look like "k10014683071000".
func ParseNewsID(id string) (string, error) {
	if !newsIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidNewsID, id)
	}
	return id, nil
}

// ArticleURL builds the canonical article URL for a news ID.
func ArticleURL(newsID string) string {
	return fmt.Sprintf("https://news.web.nhk/news/easy/%s/%s.html", newsID, newsID)
}

// Slug returns a URL-friendly identifier for the article, used as the
// generated page file name.
//
// When the article URL carries a news ID the slug is "article-<digits>",
// which is stable across title edits. Otherwise the slug is derived from
// the lowercased title with unsafe characters removed.
func (a *Article) Slug() string {
	if m := slugIDPattern.FindStringSubmatch(a.URL); m != nil {
		return "article-" + m[1]
	}

	slug := strings.ToLower(a.Title)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = slugDashPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}
