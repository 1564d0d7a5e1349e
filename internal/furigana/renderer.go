package furigana

import (
	"fmt"
	"html"
	"strings"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// Container class names for the three display variants. All three are
// emitted side by side; the site's stylesheet shows exactly one and the
// toggle script switches a class on the enclosing view, so toggling never
// re-renders or mutates ruby elements.
const (
	classKnown      = "known-version"
	classUnknown    = "unknown-version"
	classNoFurigana = "no-furigana-version"
)

// RenderToggle converts a segment sequence into one HTML fragment holding
// three sibling spans, one per display variant:
//
//   - known-version: every kanji group carries its ruby reading
//   - unknown-version: only Unknown/Unleveled groups carry a reading
//     (the default learner view)
//   - no-furigana-version: bare kanji throughout
//
// Text content is escaped; structural markup passes through verbatim.
// Rendering is deterministic: identical segments yield byte-identical
// output.
func RenderToggle(segments []model.Segment) string {
	var known, unknown, none strings.Builder

	for _, seg := range segments {
		switch seg.Type {
		case model.SegmentText:
			escaped := html.EscapeString(seg.Content)
			known.WriteString(escaped)
			unknown.WriteString(escaped)
			none.WriteString(escaped)
		case model.SegmentMarkup:
			known.WriteString(seg.Content)
			unknown.WriteString(seg.Content)
			none.WriteString(seg.Content)
		case model.SegmentKanji:
			bare := html.EscapeString(seg.Kanji)
			if seg.Reading == "" {
				// Nothing to annotate with; all variants degrade to the
				// bare form.
				known.WriteString(bare)
				unknown.WriteString(bare)
				none.WriteString(bare)
				continue
			}

			annotated := rubyHTML(seg)
			known.WriteString(annotated)
			if seg.Classification.ShowReadingByDefault() {
				unknown.WriteString(annotated)
			} else {
				unknown.WriteString(bare)
			}
			none.WriteString(bare)
		}
	}

	var b strings.Builder
	b.WriteString(`<span class="` + classKnown + `">`)
	b.WriteString(known.String())
	b.WriteString(`</span><span class="` + classUnknown + `">`)
	b.WriteString(unknown.String())
	b.WriteString(`</span><span class="` + classNoFurigana + `">`)
	b.WriteString(none.String())
	b.WriteString(`</span>`)
	return b.String()
}

// rubyHTML renders the reading-annotated form of a kanji group. Leveled
// groups carry their tier as a data-level attribute so the site script can
// threshold readings finer than the three fixed containers.
func rubyHTML(seg model.Segment) string {
	attr := ""
	if seg.Classification.Kind == model.ClassLeveled {
		attr = fmt.Sprintf(` data-level="%d"`, seg.Classification.Level)
	}
	return "<ruby" + attr + ">" +
		html.EscapeString(seg.Kanji) +
		"<rt>" + html.EscapeString(seg.Reading) + "</rt></ruby>"
}
