package model

import "fmt"

// ClassKind identifies which knowledge classification applies to a kanji
// group or character.
type ClassKind string

// Classification kinds.
//
// Known/Unknown come from the binary learned-set policy. Leveled/Unleveled
// come from the leveled reference policy: Leveled carries the ordinal tier,
// Unleveled means the character is absent from the reference table and is
// treated as always-unknown (the reading is always shown).
const (
	ClassKnown     ClassKind = "known"
	ClassUnknown   ClassKind = "unknown"
	ClassLeveled   ClassKind = "level"
	ClassUnleveled ClassKind = "unleveled"
)

// Classification is the knowledge classification of a kanji character or
// a whole kanji group. Level is meaningful only when Kind is ClassLeveled.
type Classification struct {
	// Kind is the classification variant.
	Kind ClassKind `json:"kind"`

	// Level is the ordinal proficiency tier (lower = earlier-learned).
	// Zero unless Kind is ClassLeveled.
	Level int `json:"level,omitempty"`
}

// Convenience constructors for the fixed classification values.
var (
	Known     = Classification{Kind: ClassKnown}
	Unknown   = Classification{Kind: ClassUnknown}
	Unleveled = Classification{Kind: ClassUnleveled}
)

// Level returns the classification for the given proficiency tier.
func Level(n int) Classification {
	return Classification{Kind: ClassLeveled, Level: n}
}

// ShowReadingByDefault reports whether a group with this classification has
// its reading displayed in the default view. Unknown and Unleveled groups
// show their reading; Known and Leveled groups only show it in the
// all-furigana view.
func (c Classification) ShowReadingByDefault() bool {
	return c.Kind == ClassUnknown || c.Kind == ClassUnleveled
}

// String returns a human-readable form, e.g. "known" or "level(12)".
func (c Classification) String() string {
	if c.Kind == ClassLeveled {
		return fmt.Sprintf("level(%d)", c.Level)
	}
	return string(c.Kind)
}
