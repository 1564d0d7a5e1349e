package furigana

import (
	"reflect"
	"testing"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

func TestComputeStats_binary(t *testing.T) {
	t.Parallel()

	segments := []model.Segment{
		model.TextSegment("きのう"),
		model.KanjiSegment("東京", "とうきょう", model.Known),
		model.MarkupSegment("<br>"),
		model.KanjiSegment("大雪", "おおゆき", model.Unknown),
		model.KanjiSegment("東京", "とうきょう", model.Known),
	}

	stats := ComputeStats(segments)

	if stats.TotalKanji != 6 {
		t.Errorf("TotalKanji = %d, expected 6", stats.TotalKanji)
	}
	if stats.KnownKanji != 4 {
		t.Errorf("KnownKanji = %d, expected 4", stats.KnownKanji)
	}
	if stats.UnknownKanji != 2 {
		t.Errorf("UnknownKanji = %d, expected 2", stats.UnknownKanji)
	}
	if got, want := stats.UniqueKnownKanji, []string{"京", "東"}; !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueKnownKanji = %v, expected %v", got, want)
	}
	if got, want := stats.UniqueUnknownKanji, []string{"大", "雪"}; !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueUnknownKanji = %v, expected %v", got, want)
	}
	if stats.Levels != nil {
		t.Errorf("Levels = %v, expected nil under the binary policy", stats.Levels)
	}
}

// total_kanji always equals known + unknown under the binary policy.
func TestComputeStats_additivity(t *testing.T) {
	t.Parallel()

	sequences := [][]model.Segment{
		{},
		{model.TextSegment("ひらがな")},
		{
			model.KanjiSegment("天気", "てんき", model.Unknown),
			model.KanjiSegment("去年", "きょねん", model.Known),
		},
		{
			model.KanjiSegment("日", "ひ", model.Known),
			model.KanjiSegment("日", "にち", model.Unknown),
		},
	}

	for _, segments := range sequences {
		stats := ComputeStats(segments)
		if stats.TotalKanji != stats.KnownKanji+stats.UnknownKanji {
			t.Errorf("total %d != known %d + unknown %d",
				stats.TotalKanji, stats.KnownKanji, stats.UnknownKanji)
		}
	}
}

func TestComputeStats_leveled(t *testing.T) {
	t.Parallel()

	segments := []model.Segment{
		model.KanjiSegment("日本", "にほん", model.Level(5)),
		model.KanjiSegment("語", "ご", model.Level(9)),
		model.KanjiSegment("鰐", "わに", model.Unleveled),
	}

	stats := ComputeStats(segments)

	if stats.TotalKanji != 4 {
		t.Errorf("TotalKanji = %d, expected 4", stats.TotalKanji)
	}

	tests := []struct {
		level      int
		count      int
		uniqueSize int
	}{
		{level: 5, count: 2, uniqueSize: 2},
		{level: 9, count: 1, uniqueSize: 1},
		{level: 0, count: 1, uniqueSize: 1},
	}
	for _, tt := range tests {
		ls := stats.Levels[tt.level]
		if ls == nil {
			t.Errorf("Levels[%d] is missing", tt.level)
			continue
		}
		if ls.Count != tt.count {
			t.Errorf("Levels[%d].Count = %d, expected %d", tt.level, ls.Count, tt.count)
		}
		if len(ls.UniqueKanji) != tt.uniqueSize {
			t.Errorf("Levels[%d].UniqueKanji = %v, expected %d entries",
				tt.level, ls.UniqueKanji, tt.uniqueSize)
		}
	}

	// Unleveled characters count as unknown in the binary totals.
	if stats.UnknownKanji != 1 {
		t.Errorf("UnknownKanji = %d, expected 1", stats.UnknownKanji)
	}
	if stats.KnownKanji != 3 {
		t.Errorf("KnownKanji = %d, expected 3", stats.KnownKanji)
	}
}

func TestComputeStats_empty(t *testing.T) {
	t.Parallel()

	stats := ComputeStats(nil)
	if stats.TotalKanji != 0 {
		t.Errorf("TotalKanji = %d, expected 0", stats.TotalKanji)
	}
	if stats.UniqueKnownKanji == nil || stats.UniqueUnknownKanji == nil {
		t.Error("unique lists must be empty, not nil, for stable serialization")
	}
}
