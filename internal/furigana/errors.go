package furigana

import "errors"

// Sentinel errors for the furigana engine.
var (
	// ErrEmptyKanjiRun is returned when a reading is requested for an
	// empty kanji run. The segmenter guarantees non-empty runs, so this
	// indicates a caller bug, not a condition end users can trigger.
	ErrEmptyKanjiRun = errors.New("empty kanji run")

	// ErrNoReadingSource is returned by the unsupported reading source.
	// Markup-mode segmentation never synthesizes readings, so it is
	// constructed with this source to make accidental synthesis loud.
	ErrNoReadingSource = errors.New("no reading source configured")

	// ErrNoReading is returned when the transliteration backend produced
	// no usable reading for a kanji run.
	ErrNoReading = errors.New("no reading produced for kanji run")

	// ErrUnknownDict is returned when an unrecognized tokenizer
	// dictionary name is requested.
	ErrUnknownDict = errors.New("unknown tokenizer dictionary")
)
