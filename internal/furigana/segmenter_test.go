package furigana

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// mapSource backs plain-text segmentation tests with fixed readings.
type mapSource map[string]string

func (m mapSource) Reading(run string) (string, error) {
	if run == "" {
		return "", ErrEmptyKanjiRun
	}
	reading, ok := m[run]
	if !ok {
		return "", errors.New("no reading for " + run)
	}
	return reading, nil
}

func newTestSegmenter(learned []string, readings mapSource) *Segmenter {
	return NewSegmenter(
		NewLearnedSetFromKanji(learned),
		readings,
		WithSegmenterLogger(discardLogger()),
	)
}

func TestSegmenter_SegmentText(t *testing.T) {
	t.Parallel()

	t.Run("simple sentence with empty known set", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, mapSource{"今日": "きょう", "天気": "てんき"})
		got := seg.SegmentText("今日は良い天気です。")
		want := []model.Segment{
			model.KanjiSegment("今日", "きょう", model.Unknown),
			model.TextSegment("は"),
			model.KanjiSegment("良", "", model.Unknown),
			model.TextSegment("い"),
			model.KanjiSegment("天気", "てんき", model.Unknown),
			model.TextSegment("です。"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentText() = %v, expected %v", got, want)
		}
	})

	t.Run("reading failure yields empty reading, not abort", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, mapSource{})
		got := seg.SegmentText("漢字")
		want := []model.Segment{
			model.KanjiSegment("漢字", "", model.Unknown),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentText() = %v, expected %v", got, want)
		}
	})

	t.Run("sentence delimiters stay on the preceding chunk", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, mapSource{"雨": "あめ", "晴": "はれ"})
		got := seg.SegmentText("雨。晴！")
		want := []model.Segment{
			model.KanjiSegment("雨", "あめ", model.Unknown),
			model.TextSegment("。"),
			model.KanjiSegment("晴", "はれ", model.Unknown),
			model.TextSegment("！"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentText() = %v, expected %v", got, want)
		}
	})

	t.Run("no kanji at all", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, mapSource{})
		got := seg.SegmentText("ひらがなだけ")
		want := []model.Segment{
			model.TextSegment("ひらがなだけ"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentText() = %v, expected %v", got, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, mapSource{})
		if got := seg.SegmentText(""); len(got) != 0 {
			t.Errorf("SegmentText(\"\") = %v, expected no segments", got)
		}
	})
}

// Concatenating visible contents must reproduce the input exactly.
func TestSegmenter_SegmentText_reconstruction(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"今日は良い天気です。",
		"東京で雪が降りました。\n大阪は晴れでした。",
		"漢字のない文です",
		"記号！？と改行\nが混ざる文。",
	}

	seg := newTestSegmenter(nil, mapSource{})
	for _, input := range inputs {
		var b strings.Builder
		for _, s := range seg.SegmentText(input) {
			b.WriteString(s.VisibleContent())
		}
		if b.String() != input {
			t.Errorf("reconstruction of %q = %q", input, b.String())
		}
	}
}

func TestSegmenter_SegmentMarkup(t *testing.T) {
	t.Parallel()

	t.Run("ruby yields one kanji segment with embedded reading", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter([]string{"去", "年"}, nil)
		got := seg.SegmentMarkup("<ruby>去年<rt>きょねん</rt></ruby>")
		want := []model.Segment{
			model.KanjiSegment("去年", "きょねん", model.Known),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentMarkup() = %v, expected %v", got, want)
		}
	})

	t.Run("whitelisted structure survives as markup pairs", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, nil)
		input := `<p>雪が<ruby>降<rt>ふ</rt></ruby>る<br>です</p>`
		got := seg.SegmentMarkup(input)
		want := []model.Segment{
			model.MarkupSegment("<p>"),
			model.TextSegment("雪が"),
			model.KanjiSegment("降", "ふ", model.Unknown),
			model.TextSegment("る"),
			model.MarkupSegment("<br>"),
			model.TextSegment("です"),
			model.MarkupSegment("</p>"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentMarkup() = %v, expected %v", got, want)
		}
	})

	t.Run("unknown elements are flattened", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, nil)
		got := seg.SegmentMarkup(`<span class="color">text</span>`)
		want := []model.Segment{
			model.TextSegment("text"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentMarkup() = %v, expected %v", got, want)
		}
	})

	t.Run("attributes on whitelisted tags are stripped", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, nil)
		got := seg.SegmentMarkup(`<div id="js-article-body" class="article-body">本文</div>`)
		want := []model.Segment{
			model.MarkupSegment("<div>"),
			model.TextSegment("本文"),
			model.MarkupSegment("</div>"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentMarkup() = %v, expected %v", got, want)
		}
	})

	t.Run("ruby missing a reading is dropped", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, nil)
		got := seg.SegmentMarkup("前<ruby>去年</ruby>後")
		want := []model.Segment{
			model.TextSegment("前"),
			model.TextSegment("後"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SegmentMarkup() = %v, expected %v", got, want)
		}
	})

	t.Run("ruby missing a kanji body is dropped", func(t *testing.T) {
		t.Parallel()

		seg := newTestSegmenter(nil, nil)
		got := seg.SegmentMarkup("<ruby><rt>きょねん</rt></ruby>")
		if len(got) != 0 {
			t.Errorf("SegmentMarkup() = %v, expected no segments", got)
		}
	})
}

// Visible structure must survive the markup walk with readings stripped.
func TestSegmenter_SegmentMarkup_reconstruction(t *testing.T) {
	t.Parallel()

	seg := newTestSegmenter(nil, nil)
	input := `<p><ruby>東京<rt>とうきょう</rt></ruby>で<ruby>雪<rt>ゆき</rt></ruby>が降った</p>`
	want := "<p>東京で雪が降った</p>"

	var b strings.Builder
	for _, s := range seg.SegmentMarkup(input) {
		b.WriteString(s.VisibleContent())
	}
	if b.String() != want {
		t.Errorf("reconstruction = %q, expected %q", b.String(), want)
	}
}

func TestSegmenter_Segment_modeSelection(t *testing.T) {
	t.Parallel()

	seg := newTestSegmenter(nil, mapSource{"雪": "ゆき"})

	t.Run("markup input takes the tree walk", func(t *testing.T) {
		t.Parallel()

		got := seg.Segment("<p>text</p>")
		want := []model.Segment{
			model.MarkupSegment("<p>"),
			model.TextSegment("text"),
			model.MarkupSegment("</p>"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, expected %v", got, want)
		}
	})

	t.Run("plain input takes the character scan", func(t *testing.T) {
		t.Parallel()

		got := seg.Segment("雪です")
		want := []model.Segment{
			model.KanjiSegment("雪", "ゆき", model.Unknown),
			model.TextSegment("です"),
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segment() = %v, expected %v", got, want)
		}
	})
}
