package model

import "regexp"

// Mode selects how the segmenter parses its input.
type Mode int

// Segmentation input modes.
const (
	// ModePlain treats the input as plain text with no markup. Kanji runs
	// are found by character-class scanning and readings are synthesized.
	ModePlain Mode = iota

	// ModeMarkup treats the input as HTML containing <ruby> annotations
	// and structural tags. Readings are taken from the markup itself.
	ModeMarkup
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeMarkup {
		return "markup"
	}
	return "plain"
}

// markupPattern detects markup the segmenter understands: ruby annotations
// or the whitelisted structural tags.
var markupPattern = regexp.MustCompile(`<(ruby|p|div|br)[\s>/]`)

// DetectMode decides whether input should be parsed as annotated markup or
// as plain text. Inputs carrying ruby annotations or structural tags go
// through the markup walk; everything else is scanned as plain text.
func DetectMode(input string) Mode {
	if markupPattern.MatchString(input) {
		return ModeMarkup
	}
	return ModePlain
}
