package furigana

import (
	"encoding/json"
	"log/slog"
	"os"

	"golang.org/x/text/unicode/norm"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// KnowledgePolicy classifies kanji characters against external reference
// data: a binary learned set or a leveled proficiency table.
//
// A group's classification is derived from its members, not stored per
// character: ClassifyGroup implements each policy's dominance rule.
type KnowledgePolicy interface {
	// Classify returns the classification of a single kanji character.
	Classify(r rune) model.Classification

	// ClassifyGroup returns the classification of a whole kanji run.
	ClassifyGroup(run string) model.Classification
}

// LearnedSet is the binary knowledge policy: a character is Known iff it
// is a member of the loaded learned-kanji set.
type LearnedSet struct {
	kanji map[rune]struct{}
}

// learnedKanjiFile mirrors the learned-kanji JSON written by the WaniKani
// sync ({"updated_at": ..., "kanji_count": n, "kanji": [...]}, of which
// only the kanji list matters here).
type learnedKanjiFile struct {
	Kanji []string `json:"kanji"`
}

// NewLearnedSet loads the learned-kanji file at path.
//
// A missing or corrupt file is not fatal: the policy degrades to an empty
// set (every kanji Unknown, every reading shown) and the problem is logged
// as a warning. This keeps reference-data problems from aborting a run.
func NewLearnedSet(path string, logger *slog.Logger) *LearnedSet {
	if logger == nil {
		logger = slog.Default()
	}

	set := &LearnedSet{kanji: make(map[rune]struct{})}

	data, err := os.ReadFile(path) //nolint:gosec // User-configured reference data path is intentional
	if err != nil {
		logger.Warn("learned kanji file not found, no kanji will be marked as learned",
			"path", path,
			"error", err,
		)
		return set
	}

	var file learnedKanjiFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Warn("learned kanji file is malformed, no kanji will be marked as learned",
			"path", path,
			"error", err,
		)
		return set
	}

	set.addAll(file.Kanji)
	return set
}

// NewLearnedSetFromKanji builds a policy from an in-memory kanji list.
// Used by tests and by callers that already hold a synced set.
func NewLearnedSetFromKanji(kanji []string) *LearnedSet {
	set := &LearnedSet{kanji: make(map[rune]struct{}, len(kanji))}
	set.addAll(kanji)
	return set
}

// addAll inserts every character of every entry. Entries are NFC-normalized
// first: learned files are sometimes hand-edited and may carry decomposed
// forms that would otherwise never match article text.
func (s *LearnedSet) addAll(entries []string) {
	for _, entry := range entries {
		for _, r := range norm.NFC.String(entry) {
			s.kanji[r] = struct{}{}
		}
	}
}

// Len returns the number of learned characters.
func (s *LearnedSet) Len() int {
	return len(s.kanji)
}

// Classify returns Known iff r is in the learned set.
func (s *LearnedSet) Classify(r rune) model.Classification {
	if _, ok := s.kanji[r]; ok {
		return model.Known
	}
	return model.Unknown
}

// ClassifyGroup returns Unknown if any member character is unknown.
// Conservative on purpose: one unlearned kanji forces the group's reading
// to show in the default view.
func (s *LearnedSet) ClassifyGroup(run string) model.Classification {
	for _, r := range run {
		if _, ok := s.kanji[r]; !ok {
			return model.Unknown
		}
	}
	return model.Known
}

// LevelTable is the lookup a leveled policy consults. The wanikani
// package's Levels type satisfies it.
type LevelTable interface {
	// LevelFor returns the tier for a kanji character and whether the
	// character appears in the table at all.
	LevelFor(r rune) (int, bool)
}

// LeveledPolicy is the leveled knowledge policy: each character maps to an
// ordinal proficiency tier, or Unleveled when absent from the reference
// table (absent means "always show the reading", not an error).
type LeveledPolicy struct {
	table LevelTable
}

// NewLeveledPolicy wraps a level table as a knowledge policy.
func NewLeveledPolicy(table LevelTable) *LeveledPolicy {
	return &LeveledPolicy{table: table}
}

// Classify returns the character's tier, or Unleveled if absent.
func (p *LeveledPolicy) Classify(r rune) model.Classification {
	if level, ok := p.table.LevelFor(r); ok {
		return model.Level(level)
	}
	return model.Unleveled
}

// ClassifyGroup returns the maximum tier among member characters: the
// hardest kanji dominates, so the reading shows until the last member is
// learned. Any unleveled member makes the whole group Unleveled.
func (p *LeveledPolicy) ClassifyGroup(run string) model.Classification {
	maxLevel := 0
	found := false
	for _, r := range run {
		level, ok := p.table.LevelFor(r)
		if !ok {
			return model.Unleveled
		}
		found = true
		if level > maxLevel {
			maxLevel = level
		}
	}
	if !found {
		return model.Unleveled
	}
	return model.Level(maxLevel)
}
