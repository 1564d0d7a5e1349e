package furigana

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// Segmenter converts article text into an ordered segment sequence.
// Two parsing modes exist: a tree walk over HTML carrying <ruby>
// annotations, and a character-class scan over plain text. The mode is
// chosen per input, so one Segmenter handles both annotated titles and
// plain fallback content.
//
// A Segmenter is read-only after construction and safe for concurrent use
// across articles.
type Segmenter struct {
	// policy classifies kanji groups as known/unknown or by level.
	policy KnowledgePolicy

	// source synthesizes readings in plain-text mode. Markup mode takes
	// readings from the annotations themselves and never consults it.
	source ReadingSource

	// logger receives reading-synthesis warnings.
	logger *slog.Logger
}

// SegmenterOption configures a Segmenter.
type SegmenterOption func(*Segmenter)

// WithSegmenterLogger sets a custom logger for the segmenter.
func WithSegmenterLogger(logger *slog.Logger) SegmenterOption {
	return func(s *Segmenter) {
		s.logger = logger
	}
}

// NewSegmenter creates a Segmenter with the given knowledge policy and
// reading source. Pass UnsupportedSource{} when only markup-mode input is
// expected; plain-text segmentation will then log a warning per kanji run
// and emit empty readings instead of failing.
func NewSegmenter(policy KnowledgePolicy, source ReadingSource, opts ...SegmenterOption) *Segmenter {
	s := &Segmenter{
		policy: policy,
		source: source,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Segment parses input in the mode DetectMode selects.
func (s *Segmenter) Segment(input string) []model.Segment {
	if model.DetectMode(input) == model.ModeMarkup {
		return s.SegmentMarkup(input)
	}
	return s.SegmentText(input)
}

// SegmentMarkup walks an HTML fragment in document order.
//
// Per node:
//   - a <ruby> element yields exactly one kanji segment (its text content
//     is the kanji, the <rt> child's text is the reading); a ruby missing
//     either part is dropped without error
//   - a bare text node yields a text segment, skipped if empty
//   - <p> and <div> yield open/close markup segment pairs with their
//     children processed in between; <br> yields a single self-closing
//     markup segment; attributes are stripped
//   - any other element is transparent: the tag is discarded and its
//     children processed in place
func (s *Segmenter) SegmentMarkup(input string) []model.Segment {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		// html.Parse fails only on reader errors, which a string reader
		// never produces. Degrade to plain-text scanning regardless.
		s.logger.Warn("markup parse failed, falling back to plain text", "error", err)
		return s.SegmentText(input)
	}

	segments := make([]model.Segment, 0)
	body := findBody(doc)
	if body == nil {
		return segments
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		segments = s.walkNode(c, segments)
	}
	return segments
}

// walkNode processes one tree node, appending its segments to out.
func (s *Segmenter) walkNode(n *html.Node, out []model.Segment) []model.Segment {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			out = append(out, model.TextSegment(n.Data))
		}
	case html.ElementNode:
		switch n.Data {
		case "ruby":
			out = s.walkRuby(n, out)
		case "br":
			out = append(out, model.MarkupSegment("<br>"))
		case "p", "div":
			out = append(out, model.MarkupSegment("<"+n.Data+">"))
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				out = s.walkNode(c, out)
			}
			out = append(out, model.MarkupSegment("</"+n.Data+">"))
		default:
			// Unknown markup is flattened rather than rejected: the tag
			// is dropped and the children processed in place.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				out = s.walkNode(c, out)
			}
		}
	}
	return out
}

// walkRuby extracts one kanji segment from a <ruby> element.
// The kanji is the concatenation of the element's direct text children;
// the reading is the text content of its <rt> child. A ruby lacking
// either produces no segment.
func (s *Segmenter) walkRuby(n *html.Node, out []model.Segment) []model.Segment {
	var kanji, rt strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			kanji.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "rt":
			rt.WriteString(textContent(c))
		}
	}

	kanjiText := kanji.String()
	readingText := rt.String()
	if kanjiText == "" || readingText == "" {
		return out
	}

	reading, err := NewEmbeddedReading(readingText).Reading(kanjiText)
	if err != nil {
		return out
	}

	return append(out, model.KanjiSegment(kanjiText, reading, s.policy.ClassifyGroup(kanjiText)))
}

// SegmentText scans plain text with no markup.
//
// The input is first split into chunks after runs of sentence-terminal
// punctuation and newlines, with the delimiters kept on the preceding
// chunk so reconstruction stays exact. Within each chunk, maximal runs of
// kanji become kanji segments (reading synthesized via the reading
// source, classification via the policy) and every inter-run span becomes
// a text segment.
func (s *Segmenter) SegmentText(input string) []model.Segment {
	segments := make([]model.Segment, 0)
	for _, chunk := range splitChunks(input) {
		segments = s.segmentChunk(chunk, segments)
	}
	return segments
}

// segmentChunk scans one chunk for maximal kanji runs.
func (s *Segmenter) segmentChunk(chunk string, out []model.Segment) []model.Segment {
	runes := []rune(chunk)
	i := 0
	for i < len(runes) {
		j := i
		if IsKanji(runes[i]) {
			for j < len(runes) && IsKanji(runes[j]) {
				j++
			}
			run := string(runes[i:j])
			out = append(out, model.KanjiSegment(run, s.readingFor(run), s.policy.ClassifyGroup(run)))
		} else {
			for j < len(runes) && !IsKanji(runes[j]) {
				j++
			}
			out = append(out, model.TextSegment(string(runes[i:j])))
		}
		i = j
	}
	return out
}

// readingFor synthesizes a reading, degrading to an empty reading on
// backend failure. Segmentation never aborts because one run could not
// be read; the failure is logged and the remaining runs proceed.
func (s *Segmenter) readingFor(run string) string {
	reading, err := s.source.Reading(run)
	if err != nil {
		s.logger.Warn("reading synthesis failed",
			"kanji", run,
			"error", err,
		)
		return ""
	}
	return reading
}

// sentence-terminal delimiters that end a processing chunk.
func isChunkDelimiter(r rune) bool {
	switch r {
	case '。', '！', '？', '!', '?', '\n':
		return true
	}
	return false
}

// splitChunks splits text after runs of chunk delimiters, keeping the
// delimiters attached to the preceding chunk.
func splitChunks(text string) []string {
	var chunks []string
	runes := []rune(text)
	start := 0
	i := 0
	for i < len(runes) {
		if isChunkDelimiter(runes[i]) {
			for i < len(runes) && isChunkDelimiter(runes[i]) {
				i++
			}
			chunks = append(chunks, string(runes[start:i]))
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		chunks = append(chunks, string(runes[start:]))
	}
	return chunks
}

// findBody returns the <body> node of a parsed document, or nil.
// html.Parse always synthesizes html/head/body around fragments.
func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// textContent concatenates all text nodes beneath n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
