package furigana

import "github.com/basjacobs93/nhk-web-easy/internal/model"

// DefaultPreviewChars is the visible-character budget for article
// previews on the index page.
const DefaultPreviewChars = 200

// Truncate returns a prefix of segments whose cumulative visible-character
// budget does not exceed maxChars. Visible characters are the runes of
// text segments and kanji segments; structural markup costs nothing and is
// carried through, so a preview keeps its paragraph breaks.
//
// A text segment sitting on the boundary is sliced to fit exactly. A kanji
// segment is atomic: if it would overflow, truncation stops before it even
// when budget remains. Close tags for already-opened structural markup are
// not synthesized; the preview container tolerates the resulting fragment.
func Truncate(segments []model.Segment, maxChars int) []model.Segment {
	out := make([]model.Segment, 0, len(segments))
	remaining := maxChars

	for _, seg := range segments {
		switch seg.Type {
		case model.SegmentMarkup:
			out = append(out, seg)
		case model.SegmentText:
			runes := []rune(seg.Content)
			if len(runes) <= remaining {
				out = append(out, seg)
				remaining -= len(runes)
				continue
			}
			if remaining > 0 {
				out = append(out, model.TextSegment(string(runes[:remaining])))
				remaining = 0
			}
			return out
		case model.SegmentKanji:
			n := len([]rune(seg.Kanji))
			if n > remaining {
				return out
			}
			out = append(out, seg)
			remaining -= n
		}
	}

	return out
}
