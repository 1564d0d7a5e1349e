package nhk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const articlePage = `<html><body>
	<h1 id="news_title">台風が近づく</h1>
	<div id="js-article-body">
		<p>台風が日本に近づいています。とても強い風が吹いています。</p>
	</div>
</body></html>`

func newArticleServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/article.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	})
	mux.HandleFunc("/empty.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><nav>menu</nav></body></html>")
	})
	mux.HandleFunc("/image.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetcher_FetchArticle(t *testing.T) {
	t.Parallel()

	server := newArticleServer(t)
	fetcher := NewFetcher(
		WithFetchDelay(0),
		WithFetcherLogger(discardLogger()),
	)

	entry := FeedEntry{
		URL:           server.URL + "/article.html",
		Title:         "feed title",
		TitleWithRuby: "<ruby>台風<rt>たいふう</rt></ruby>",
		NewsID:        "k10014683071000",
		Date:          "2025-08-20",
	}

	article, err := fetcher.FetchArticle(context.Background(), entry)
	if err != nil {
		t.Fatalf("FetchArticle() returned unexpected error: %v", err)
	}

	// Page title preferred over the feed title.
	if article.Title != "台風が近づく" {
		t.Errorf("Title = %q, expected the page h1", article.Title)
	}
	if article.TitleWithRuby != entry.TitleWithRuby {
		t.Errorf("TitleWithRuby = %q, expected the feed value", article.TitleWithRuby)
	}
	if !strings.Contains(article.Content, "台風が日本に近づいています") {
		t.Errorf("Content = %q, expected the extracted body", article.Content)
	}
	if !strings.Contains(article.RawHTML, "js-article-body") {
		t.Error("RawHTML does not carry the fetched page")
	}
	if article.ScrapedAt == "" {
		t.Error("ScrapedAt is empty")
	}
	if article.ImageSource != "none" {
		t.Errorf("ImageSource = %q, expected none", article.ImageSource)
	}
}

func TestFetcher_FetchArticle_dedupe(t *testing.T) {
	t.Parallel()

	server := newArticleServer(t)
	fetcher := NewFetcher(
		WithFetchDelay(0),
		WithFetcherLogger(discardLogger()),
	)
	entry := FeedEntry{URL: server.URL + "/article.html", Title: "t"}

	first, err := fetcher.FetchArticle(context.Background(), entry)
	if err != nil {
		t.Fatalf("FetchArticle() returned unexpected error: %v", err)
	}
	if first == nil {
		t.Fatal("first fetch returned nil article")
	}

	second, err := fetcher.FetchArticle(context.Background(), entry)
	if err != nil {
		t.Fatalf("FetchArticle() returned unexpected error: %v", err)
	}
	if second != nil {
		t.Error("second fetch of the same URL returned an article, expected dedupe")
	}
}

func TestFetcher_FetchAll_containment(t *testing.T) {
	t.Parallel()

	server := newArticleServer(t)
	fetcher := NewFetcher(
		WithFetchDelay(0),
		WithFetcherLogger(discardLogger()),
	)

	entries := []FeedEntry{
		{URL: server.URL + "/missing.html", Title: "404s"},
		{URL: server.URL + "/empty.html", Title: "empty"},
		{URL: server.URL + "/article.html", Title: "good"},
	}

	articles := fetcher.FetchAll(context.Background(), entries)

	// The failing and empty articles are skipped, the good one survives.
	if len(articles) != 1 {
		t.Fatalf("FetchAll() returned %d articles, expected 1", len(articles))
	}
	if articles[0].Title != "台風が近づく" {
		t.Errorf("Title = %q, expected the good article", articles[0].Title)
	}
}

func TestFetcher_imageDownload(t *testing.T) {
	t.Parallel()

	server := newArticleServer(t)
	imagesDir := filepath.Join(t.TempDir(), "images")
	fetcher := NewFetcher(
		WithFetchDelay(0),
		WithImagesDir(imagesDir),
		WithFetcherLogger(discardLogger()),
	)

	entry := FeedEntry{
		URL:         server.URL + "/article.html",
		Title:       "t",
		NewsID:      "k10014683071000",
		ImageURL:    server.URL + "/image.jpg",
		ImageSource: "easy",
	}

	article, err := fetcher.FetchArticle(context.Background(), entry)
	if err != nil {
		t.Fatalf("FetchArticle() returned unexpected error: %v", err)
	}

	if article.LocalImagePath != "images/k10014683071000_image.jpg" {
		t.Errorf("LocalImagePath = %q, expected the saved image path", article.LocalImagePath)
	}

	data, err := os.ReadFile(filepath.Join(imagesDir, "k10014683071000_image.jpg"))
	if err != nil {
		t.Fatalf("saved image missing: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("saved image content = %q, expected the served bytes", data)
	}
}

func TestFetcher_bodySizeLimit(t *testing.T) {
	t.Parallel()

	server := newArticleServer(t)
	fetcher := NewFetcher(
		WithFetchDelay(0),
		WithFetcherMaxBodySize(16),
		WithFetcherLogger(discardLogger()),
	)

	// The truncated page has no extractable content left.
	_, err := fetcher.FetchArticle(context.Background(), FeedEntry{
		URL:   server.URL + "/article.html",
		Title: "t",
	})
	if err == nil {
		t.Error("FetchArticle() succeeded on a truncated body, expected an error")
	}
}
