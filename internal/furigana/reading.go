package furigana

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// ReadingSource produces the phonetic reading for a maximal contiguous run
// of kanji characters. Implementations must reject empty runs with
// ErrEmptyKanjiRun.
type ReadingSource interface {
	// Reading returns the hiragana reading for the kanji run.
	Reading(run string) (string, error)
}

// EmbeddedReading is the reading source for markup-mode segmentation: the
// reading was already present in the source ruby annotation and is simply
// carried through. It never calls out to a backend.
type EmbeddedReading struct {
	reading string
}

// NewEmbeddedReading wraps a reading found in source markup.
func NewEmbeddedReading(reading string) EmbeddedReading {
	return EmbeddedReading{reading: reading}
}

// Reading returns the embedded reading regardless of the run content.
func (e EmbeddedReading) Reading(run string) (string, error) {
	if run == "" {
		return "", ErrEmptyKanjiRun
	}
	return e.reading, nil
}

// UnsupportedSource is a ReadingSource that always fails. It is the
// default for configurations that have no way to synthesize readings,
// so a misconfigured plain-text segmentation fails visibly in logs
// instead of silently emitting unannotated kanji.
type UnsupportedSource struct{}

// Reading always returns ErrNoReadingSource (or ErrEmptyKanjiRun for an
// empty run).
func (UnsupportedSource) Reading(run string) (string, error) {
	if run == "" {
		return "", ErrEmptyKanjiRun
	}
	return "", ErrNoReadingSource
}

// Dict names a kagome tokenizer dictionary.
type Dict string

// Supported tokenizer dictionaries.
const (
	// DictIPA is the IPA dictionary, the general-purpose default.
	DictIPA Dict = "ipa"

	// DictUni is the UniDic dictionary, which segments into shorter
	// units and carries more precise readings for names.
	DictUni Dict = "uni"
)

// KagomeSource synthesizes readings for plain kanji runs with the kagome
// morphological tokenizer.
//
// Design decision: The tokenizer is constructed once and shared because
// dictionary loading is by far the dominant cost. Readings are memoized
// per unique run because an article repeats its vocabulary heavily and a
// reading is computed for every kanji group regardless of classification
// (the all-furigana render variant needs it even for known kanji).
type KagomeSource struct {
	tok *tokenizer.Tokenizer

	mu    sync.Mutex
	cache map[string]string
}

// NewKagomeSource builds a reading source backed by the named dictionary.
func NewKagomeSource(dict Dict) (*KagomeSource, error) {
	var t *tokenizer.Tokenizer
	var err error
	switch dict {
	case DictIPA, "":
		t, err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	case DictUni:
		t, err = tokenizer.New(uni.Dict(), tokenizer.OmitBosEos())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDict, dict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build tokenizer: %w", err)
	}

	return &KagomeSource{
		tok:   t,
		cache: make(map[string]string),
	}, nil
}

// Reading synthesizes the hiragana reading for the kanji run. The
// tokenizer reports readings in katakana; they are folded to hiragana
// because furigana is conventionally rendered in hiragana.
func (k *KagomeSource) Reading(run string) (string, error) {
	if run == "" {
		return "", ErrEmptyKanjiRun
	}

	k.mu.Lock()
	cached, ok := k.cache[run]
	k.mu.Unlock()
	if ok {
		return cached, nil
	}

	var b strings.Builder
	for _, token := range k.tok.Tokenize(run) {
		reading, ok := token.Reading()
		if !ok || reading == "" || reading == "*" {
			// The dictionary has no reading for this token (rare for
			// pure kanji runs). Without a complete reading the partial
			// result would mislead, so fail the whole run.
			return "", fmt.Errorf("%w: %q", ErrNoReading, run)
		}
		b.WriteString(katakanaToHiragana(reading))
	}

	result := b.String()
	if result == "" {
		return "", fmt.Errorf("%w: %q", ErrNoReading, run)
	}

	k.mu.Lock()
	k.cache[run] = result
	k.mu.Unlock()
	return result, nil
}

// katakanaToHiragana folds katakana characters to their hiragana
// equivalents, leaving everything else untouched.
func katakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'ァ' && r <= 'ヶ' {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
