package wanikani

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Levels is the static kanji-to-level reference table backing the leveled
// knowledge policy and the client-side threshold script. Immutable after
// load.
type Levels struct {
	toLevel map[rune]int
	byLevel map[int][]string
}

// levelEntry is one value of the kanji-wanikani.json mapping. Entries
// without a wk_level are present in the source data but unusable here.
type levelEntry struct {
	WKLevel *int `json:"wk_level"`
}

// LoadLevels reads the level table at path ({char: {"wk_level": n}}).
//
// Like the learned-kanji set, a missing or corrupt table degrades to an
// empty one with a warning instead of failing: every kanji then
// classifies as Unleveled and all readings show.
func LoadLevels(path string, logger *slog.Logger) *Levels {
	if logger == nil {
		logger = slog.Default()
	}

	levels := &Levels{
		toLevel: make(map[rune]int),
		byLevel: make(map[int][]string),
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-configured reference data path is intentional
	if err != nil {
		logger.Warn("level table not found, all kanji will be unleveled",
			"path", path,
			"error", err,
		)
		return levels
	}

	var raw map[string]levelEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("level table is malformed, all kanji will be unleveled",
			"path", path,
			"error", err,
		)
		return levels
	}

	for kanji, entry := range raw {
		if entry.WKLevel == nil {
			continue
		}
		for _, r := range kanji {
			levels.toLevel[r] = *entry.WKLevel
		}
		levels.byLevel[*entry.WKLevel] = append(levels.byLevel[*entry.WKLevel], kanji)
	}
	for _, kanji := range levels.byLevel {
		sort.Strings(kanji)
	}

	return levels
}

// NewLevels builds a table from an in-memory mapping. Used by tests.
func NewLevels(mapping map[string]int) *Levels {
	levels := &Levels{
		toLevel: make(map[rune]int, len(mapping)),
		byLevel: make(map[int][]string),
	}
	for kanji, level := range mapping {
		for _, r := range kanji {
			levels.toLevel[r] = level
		}
		levels.byLevel[level] = append(levels.byLevel[level], kanji)
	}
	for _, kanji := range levels.byLevel {
		sort.Strings(kanji)
	}
	return levels
}

// Len returns the number of leveled characters.
func (l *Levels) Len() int {
	return len(l.toLevel)
}

// LevelFor returns the tier for a kanji character and whether the
// character appears in the table.
func (l *Levels) LevelFor(r rune) (int, bool) {
	level, ok := l.toLevel[r]
	return level, ok
}

// KanjiForLevel returns the sorted kanji at exactly the given tier.
func (l *Levels) KanjiForLevel(level int) []string {
	return l.byLevel[level]
}

// KanjiUpToLevel returns the sorted kanji at or below the given tier.
func (l *Levels) KanjiUpToLevel(level int) []string {
	var out []string
	for lvl, kanji := range l.byLevel {
		if lvl >= 1 && lvl <= level {
			out = append(out, kanji...)
		}
	}
	sort.Strings(out)
	return out
}

// ExportJS writes the table as JavaScript constants for the site's
// client-side level thresholding: WANIKANI_KANJI (level → kanji list) and
// KANJI_TO_LEVEL (kanji → level).
func (l *Levels) ExportJS(path string) error {
	byLevel := make(map[string][]string, len(l.byLevel))
	for level, kanji := range l.byLevel {
		byLevel[fmt.Sprintf("%d", level)] = kanji
	}
	byLevelJSON, err := json.MarshalIndent(byLevel, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode level table: %w", err)
	}

	toLevel := make(map[string]int, len(l.toLevel))
	for r, level := range l.toLevel {
		toLevel[string(r)] = level
	}
	toLevelJSON, err := json.Marshal(toLevel)
	if err != nil {
		return fmt.Errorf("failed to encode level lookup: %w", err)
	}

	var b strings.Builder
	b.WriteString("const WANIKANI_KANJI = ")
	b.Write(byLevelJSON)
	b.WriteString(";\n\nconst KANJI_TO_LEVEL = ")
	b.Write(toLevelJSON)
	b.WriteString(";\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write level export: %w", err)
	}
	return nil
}
