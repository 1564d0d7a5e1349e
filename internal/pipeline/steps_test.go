package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/basjacobs93/nhk-web-easy/internal/furigana"
	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// stubSource resolves readings from a fixed table.
type stubSource map[string]string

func (s stubSource) Reading(run string) (string, error) {
	if run == "" {
		return "", furigana.ErrEmptyKanjiRun
	}
	return s[run], nil
}

func testProcessor() *furigana.Processor {
	seg := furigana.NewSegmenter(
		furigana.NewLearnedSetFromKanji([]string{"今", "日"}),
		stubSource{"今日": "きょう", "天気": "てんき"},
		furigana.WithSegmenterLogger(discardLogger()),
	)
	return furigana.NewProcessor(seg, furigana.WithProcessorLogger(discardLogger()))
}

// TestValidateStep tests the validation step.
func TestValidateStep(t *testing.T) {
	t.Parallel()

	step := NewValidateStep(WithValidateLogger(discardLogger()))

	if step.Name() != "validate" {
		t.Errorf("Name() = %q, expected validate", step.Name())
	}

	tests := []struct {
		name    string
		article *model.Article
		skipped bool
		wantErr bool
	}{
		{
			name:    "complete article passes",
			article: &model.Article{URL: "https://example.com", Title: "t", Content: "c"},
		},
		{
			name:    "raw html counts as content",
			article: &model.Article{URL: "https://example.com", Title: "t", RawHTML: "<html></html>"},
		},
		{
			name:    "missing url is a failure",
			article: &model.Article{Title: "t", Content: "c"},
			wantErr: true,
		},
		{
			name:    "empty content is skipped",
			article: &model.Article{URL: "https://example.com", Title: "t"},
			skipped: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := step.Do(context.Background(), tt.article)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.skipped && !errors.Is(err, ErrArticleSkipped) {
				t.Errorf("Do() error = %v, expected ErrArticleSkipped", err)
			}
			if !tt.skipped && errors.Is(err, ErrArticleSkipped) {
				t.Errorf("Do() error = %v, did not expect ErrArticleSkipped", err)
			}
		})
	}
}

// TestAnnotateStep tests annotation through the pipeline step.
func TestAnnotateStep(t *testing.T) {
	t.Parallel()

	t.Run("fills enrichment fields", func(t *testing.T) {
		t.Parallel()

		step := NewAnnotateStep(testProcessor(), WithAnnotateLogger(discardLogger()))
		if step.Name() != "annotate" {
			t.Errorf("Name() = %q, expected annotate", step.Name())
		}

		article := &model.Article{
			URL:     "https://news.web.nhk/news/easy/k1/k1.html",
			Title:   "今日の天気",
			Content: "今日は良い天気です。",
		}
		if err := step.Do(context.Background(), article); err != nil {
			t.Fatalf("Do() returned unexpected error: %v", err)
		}

		if article.Stats == nil {
			t.Fatal("Stats is nil, expected computed statistics")
		}
		if article.Stats.TotalKanji != 5 {
			t.Errorf("TotalKanji = %d, expected 5", article.Stats.TotalKanji)
		}
		if article.Stats.KnownKanji != 2 {
			t.Errorf("KnownKanji = %d, expected 2", article.Stats.KnownKanji)
		}
		if article.ContentHTML == "" || !strings.Contains(article.ContentHTML, "known-version") {
			t.Errorf("ContentHTML = %q, expected toggle markup", article.ContentHTML)
		}
		if article.TitleHTML == "" {
			t.Error("TitleHTML is empty, expected rendered title")
		}
		if article.ContentPreviewHTML == "" {
			t.Error("ContentPreviewHTML is empty, expected rendered preview")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		step := NewAnnotateStep(testProcessor(), WithAnnotateLogger(discardLogger()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		article := &model.Article{URL: "https://example.com", Content: "本文"}
		if err := step.Do(ctx, article); !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error = %v, expected context.Canceled", err)
		}
	})
}

// TestDefaultPipeline tests the standard pipeline assembly.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(testProcessor(), WithLogger(discardLogger()))

	names := p.StepNames()
	if len(names) != 2 || names[0] != "validate" || names[1] != "annotate" {
		t.Fatalf("StepNames() = %v, expected [validate annotate]", names)
	}

	t.Run("skips empty articles before annotation", func(t *testing.T) {
		t.Parallel()

		article := &model.Article{URL: "https://example.com", Title: "空"}
		err := p.Execute(context.Background(), article)
		if !errors.Is(err, ErrArticleSkipped) {
			t.Fatalf("Execute() error = %v, expected ErrArticleSkipped", err)
		}
		if article.Stats != nil {
			t.Error("Stats set on a skipped article, expected nil")
		}
	})

	t.Run("enriches a complete article end to end", func(t *testing.T) {
		t.Parallel()

		article := &model.Article{
			URL:     "https://news.web.nhk/news/easy/k2/k2.html",
			Title:   "天気",
			Content: "今日は良い天気です。",
		}
		if err := p.Execute(context.Background(), article); err != nil {
			t.Fatalf("Execute() returned unexpected error: %v", err)
		}
		if article.Stats == nil || article.Stats.TotalKanji != 5 {
			t.Errorf("Stats = %v, expected TotalKanji 5", article.Stats)
		}
	})
}
