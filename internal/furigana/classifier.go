package furigana

// Kanji character-class bounds: the CJK Unified Ideographs block.
// The upper bound matches the classic annotation range used by the NHK
// Easy ruby markup rather than the full Unicode block, which has grown
// past U+9FAF in later Unicode versions.
const (
	kanjiLow  = '一'
	kanjiHigh = '龯'
)

// IsKanji reports whether r is a CJK kanji ideograph
// (U+4E00 through U+9FAF inclusive). Pure and total.
func IsKanji(r rune) bool {
	return r >= kanjiLow && r <= kanjiHigh
}

// countKanji returns the number of kanji characters in s.
func countKanji(s string) int {
	n := 0
	for _, r := range s {
		if IsKanji(r) {
			n++
		}
	}
	return n
}
