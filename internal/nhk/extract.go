package nhk

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Extraction thresholds. Paragraph fragments shorter than
// minParagraphRunes are navigation crumbs and photo credits, not body
// text; a container whose whole text is under minContainerRunes has no
// article in it.
const (
	minParagraphRunes = 10
	minContainerRunes = 50
)

// noisePattern strips share widgets and photo bylines that leak into the
// extracted text on some layouts.
var noisePattern = regexp.MustCompile(`(シェア|ツイート|印刷|メール|.*さんの.*)`)

// spacePattern collapses whitespace runs in the plain-text content.
var spacePattern = regexp.MustCompile(`\s+`)

// Extraction is the article data pulled out of one fetched page.
type Extraction struct {
	// Title is the plain article title.
	Title string

	// Content is the plain-text body. Empty when no selector matched
	// usable text.
	Content string

	// Date is the publication date, from a datetime attribute when one
	// exists.
	Date string
}

// ExtractArticle extracts title, content and date from an article page.
//
// Each field tries an ordered list of selectors and takes the first
// match; the lists cover the layouts the site has used over time. A page
// where nothing matches yields empty fields, not an error.
func ExtractArticle(rawHTML string) (Extraction, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to parse article page: %w", err)
	}

	return Extraction{
		Title:   extractTitle(doc),
		Content: extractContent(doc),
		Date:    extractDate(doc),
	}, nil
}

// titleSelectors in preference order, newest layout first.
var titleSelectors = []func(*html.Node) bool{
	byTagAndID("h1", "news_title"),
	byClass("article-main__title"),
	byTag("h1"),
	byClass("news-title"),
	byTag("title"),
}

func extractTitle(doc *html.Node) string {
	for _, match := range titleSelectors {
		if n := findFirst(doc, match); n != nil {
			if text := nodeText(n); text != "" {
				return text
			}
		}
	}
	return ""
}

// contentSelectors locate the article-body container across layouts.
var contentSelectors = []func(*html.Node) bool{
	byID("js-article-body"),
	byClass("article-main__body"),
	byClass("article-body"),
	byID("news_body"),
	byClass("content-body"),
}

func extractContent(doc *html.Node) string {
	for _, match := range contentSelectors {
		container := findFirst(doc, match)
		if container == nil {
			continue
		}

		if content := paragraphText(container); content != "" {
			return cleanContent(content)
		}

		// No paragraph structure; fall back to the container's whole
		// text if it is substantial.
		if text := nodeText(container); len([]rune(text)) > minContainerRunes {
			return cleanContent(text)
		}
	}
	return ""
}

// paragraphText joins the container's paragraph-like descendants with
// blank lines, dropping short fragments.
func paragraphText(container *html.Node) string {
	blocks := findAll(container, func(n *html.Node) bool {
		// Descendants only; the container itself would swallow every
		// paragraph into one block.
		return n != container && n.Type == html.ElementNode &&
			(n.Data == "p" || n.Data == "div")
	})

	var paragraphs []string
	for _, block := range blocks {
		text := nodeText(block)
		if len([]rune(text)) > minParagraphRunes {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// cleanContent collapses whitespace and strips sharing-widget noise.
func cleanContent(content string) string {
	content = spacePattern.ReplaceAllString(content, " ")
	content = noisePattern.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// dateSelectors in preference order.
var dateSelectors = []func(*html.Node) bool{
	byClass("article-main__date"),
	byClass("news-date"),
	byTag("time"),
	byClass("date"),
	byAttr("datetime"),
}

func extractDate(doc *html.Node) string {
	for _, match := range dateSelectors {
		n := findFirst(doc, match)
		if n == nil {
			continue
		}
		if dt := attrVal(n, "datetime"); dt != "" {
			return dt
		}
		if text := nodeText(n); text != "" {
			return text
		}
	}
	return ""
}
