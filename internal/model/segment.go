package model

// SegmentType identifies the variant of a Segment.
type SegmentType string

// Segment types.
//
//   - SegmentText: literal characters, rendered identically in every
//     display variant.
//   - SegmentMarkup: a structural HTML tag (<p>, </p>, <div>, </div>,
//     <br>) preserved verbatim in every variant and never split by
//     preview truncation.
//   - SegmentKanji: one contiguous run of kanji sharing one reading,
//     paired with its knowledge classification.
const (
	SegmentText   SegmentType = "text"
	SegmentMarkup SegmentType = "html"
	SegmentKanji  SegmentType = "kanji"
)

// Segment is the atomic unit of segmented article text. Segments appear in
// document order; concatenating the visible content of a segment sequence
// (Content for text/markup segments, Kanji for kanji segments, readings
// discarded) reconstructs the original text and structural tags exactly.
type Segment struct {
	// Type is the segment variant.
	Type SegmentType `json:"type"`

	// Content is the literal text or structural tag.
	// Empty for kanji segments.
	Content string `json:"content,omitempty"`

	// Kanji is the contiguous kanji run. Set only for kanji segments.
	Kanji string `json:"kanji,omitempty"`

	// Reading is the phonetic reading of Kanji. May be empty when reading
	// synthesis failed; rendering then emits the bare kanji in every
	// variant.
	Reading string `json:"reading,omitempty"`

	// Classification is the knowledge classification of the whole group.
	// Meaningful only for kanji segments.
	Classification Classification `json:"classification,omitzero"`
}

// TextSegment builds a literal-text segment.
func TextSegment(content string) Segment {
	return Segment{Type: SegmentText, Content: content}
}

// MarkupSegment builds a structural-tag segment.
func MarkupSegment(tag string) Segment {
	return Segment{Type: SegmentMarkup, Content: tag}
}

// KanjiSegment builds a kanji-group segment.
func KanjiSegment(kanji, reading string, class Classification) Segment {
	return Segment{
		Type:           SegmentKanji,
		Kanji:          kanji,
		Reading:        reading,
		Classification: class,
	}
}

// VisibleLen returns the segment's contribution to the preview character
// budget: the rune count of literal text or the kanji run. Structural
// markup is invisible and contributes zero.
func (s Segment) VisibleLen() int {
	switch s.Type {
	case SegmentText:
		return len([]rune(s.Content))
	case SegmentKanji:
		return len([]rune(s.Kanji))
	default:
		return 0
	}
}

// VisibleContent returns the characters the segment contributes to the
// reconstructed document: literal text, the structural tag, or the bare
// kanji run with its reading discarded.
func (s Segment) VisibleContent() string {
	if s.Type == SegmentKanji {
		return s.Kanji
	}
	return s.Content
}
