package furigana

import (
	"sort"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// ComputeStats aggregates per-character kanji statistics from a segment
// sequence. Only kanji segments contribute, and they contribute per
// character: a three-kanji group adds three to the total.
//
// Under the binary policy (Known/Unknown classifications) the known and
// unknown buckets are filled. Under the leveled policy the per-level
// breakdown is filled as well, with unleveled characters collected under
// tier zero and counted as unknown. Unique lists are sorted so serialized
// stats are byte-stable.
func ComputeStats(segments []model.Segment) *model.Stats {
	stats := &model.Stats{
		UniqueKnownKanji:   make([]string, 0),
		UniqueUnknownKanji: make([]string, 0),
	}

	uniqueKnown := make(map[rune]struct{})
	uniqueUnknown := make(map[rune]struct{})
	var levels map[int]map[rune]struct{}

	for _, seg := range segments {
		if seg.Type != model.SegmentKanji {
			continue
		}
		for _, r := range seg.Kanji {
			if !IsKanji(r) {
				continue
			}
			stats.TotalKanji++

			switch seg.Classification.Kind {
			case model.ClassKnown:
				stats.KnownKanji++
				uniqueKnown[r] = struct{}{}
			case model.ClassUnknown:
				stats.UnknownKanji++
				uniqueUnknown[r] = struct{}{}
			case model.ClassLeveled, model.ClassUnleveled:
				level := 0
				if seg.Classification.Kind == model.ClassLeveled {
					level = seg.Classification.Level
					stats.KnownKanji++
					uniqueKnown[r] = struct{}{}
				} else {
					stats.UnknownKanji++
					uniqueUnknown[r] = struct{}{}
				}
				if levels == nil {
					levels = make(map[int]map[rune]struct{})
				}
				if levels[level] == nil {
					levels[level] = make(map[rune]struct{})
				}
				levels[level][r] = struct{}{}
				if stats.Levels == nil {
					stats.Levels = make(map[int]*model.LevelStats)
				}
				if stats.Levels[level] == nil {
					stats.Levels[level] = &model.LevelStats{}
				}
				stats.Levels[level].Count++
			}
		}
	}

	stats.UniqueKnownKanji = sortedRunes(uniqueKnown)
	stats.UniqueUnknownKanji = sortedRunes(uniqueUnknown)
	for level, set := range levels {
		stats.Levels[level].UniqueKanji = sortedRunes(set)
	}

	return stats
}

// sortedRunes flattens a rune set into a sorted list of single-character
// strings.
func sortedRunes(set map[rune]struct{}) []string {
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}
