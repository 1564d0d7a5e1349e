package model

// Stats holds per-article kanji statistics under the binary learned-set
// policy. Counts are per character, not per group: a group of three kanji
// contributes three to TotalKanji. Unique-character lists are sorted so
// that serialized output is byte-stable across runs.
type Stats struct {
	// TotalKanji is the number of kanji characters in the article body.
	TotalKanji int `json:"total_kanji"`

	// KnownKanji is the number of kanji characters in the learned set.
	KnownKanji int `json:"known_kanji"`

	// UnknownKanji is the number of kanji characters not yet learned.
	UnknownKanji int `json:"unknown_kanji"`

	// UniqueKnownKanji lists the distinct learned kanji, sorted.
	UniqueKnownKanji []string `json:"unique_known_kanji"`

	// UniqueUnknownKanji lists the distinct unlearned kanji, sorted.
	UniqueUnknownKanji []string `json:"unique_unknown_kanji"`

	// Levels breaks the counts down by proficiency tier when the leveled
	// reference policy is in use. Nil under the binary policy. The zero
	// key collects characters absent from the reference table.
	Levels map[int]*LevelStats `json:"levels,omitempty"`
}

// LevelStats holds the per-tier slice of a leveled statistics breakdown.
type LevelStats struct {
	// Count is the number of kanji characters at this tier.
	Count int `json:"count"`

	// UniqueKanji lists the distinct kanji at this tier, sorted.
	UniqueKanji []string `json:"unique_kanji"`
}
