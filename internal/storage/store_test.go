package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestStore_roundTrip(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "data"), discardLogger())

	articles := []*model.Article{
		{
			URL:    "https://news.web.nhk/news/easy/k10014683071000/k10014683071000.html",
			NewsID: "k10014683071000",
			Title:  "台風が近づく",
			Stats:  &model.Stats{TotalKanji: 5, UnknownKanji: 5},
		},
		{
			URL:   "https://news.web.nhk/news/easy/k10014683071001/k10014683071001.html",
			Title: "雪が降る",
		},
	}

	if err := store.SaveArticles(RawArticlesFile, articles); err != nil {
		t.Fatalf("SaveArticles() returned unexpected error: %v", err)
	}

	loaded, err := store.LoadArticles(RawArticlesFile)
	if err != nil {
		t.Fatalf("LoadArticles() returned unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadArticles() returned %d articles, expected 2", len(loaded))
	}
	if loaded[0].Title != "台風が近づく" {
		t.Errorf("Title = %q, expected 台風が近づく", loaded[0].Title)
	}
	if loaded[0].Stats == nil || loaded[0].Stats.TotalKanji != 5 {
		t.Errorf("Stats = %v, expected TotalKanji 5", loaded[0].Stats)
	}
}

func TestStore_LoadArticles_missingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), discardLogger())

	articles, err := store.LoadArticles(RawArticlesFile)
	if err != nil {
		t.Fatalf("LoadArticles() returned unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("LoadArticles() = %v, expected empty collection", articles)
	}
}

func TestStore_LoadArticles_corruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewStore(dir, discardLogger())
	if err := os.WriteFile(filepath.Join(dir, RawArticlesFile), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.LoadArticles(RawArticlesFile); err == nil {
		t.Error("LoadArticles() succeeded on a corrupt store, expected an error")
	}
}

func TestStore_SaveArticles_atomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewStore(dir, discardLogger())

	if err := store.SaveArticles(ProcessedArticlesFile, []*model.Article{{Title: "first"}}); err != nil {
		t.Fatalf("SaveArticles() returned unexpected error: %v", err)
	}
	if err := store.SaveArticles(ProcessedArticlesFile, []*model.Article{{Title: "second"}}); err != nil {
		t.Fatalf("SaveArticles() returned unexpected error: %v", err)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("temp file %s left behind", entry.Name())
		}
	}

	loaded, err := store.LoadArticles(ProcessedArticlesFile)
	if err != nil {
		t.Fatalf("LoadArticles() returned unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Title != "second" {
		t.Errorf("LoadArticles() = %v, expected the second save", loaded)
	}
}
