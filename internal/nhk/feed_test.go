package nhk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const feedPayload = `[
	{
		"2025-08-20": [
			{
				"title": "台風が近づく",
				"title_with_ruby": "<ruby>台風<rt>たいふう</rt></ruby>が近づく",
				"news_id": "k10014683071000",
				"news_publication_time": "2025-08-20T11:30:00+09:00",
				"has_news_easy_voice": true,
				"has_news_easy_image": true,
				"news_easy_image_uri": "https://img.example/easy.jpg",
				"news_web_image_uri": "https://img.example/web.jpg"
			},
			{
				"title": "",
				"news_id": "k10014683071001"
			},
			{
				"title": "画像はウェブ版のみ",
				"news_id": "k10014683071002",
				"news_web_image_uri": "https://img.example/web2.jpg"
			}
		]
	}
]`

func TestFeed_Entries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedPayload)
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(
		WithFeedURL(server.URL),
		WithFeedLogger(discardLogger()),
	)

	entries, err := feed.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries() returned unexpected error: %v", err)
	}

	// The entry without a title is dropped.
	if len(entries) != 2 {
		t.Fatalf("Entries() returned %d entries, expected 2", len(entries))
	}

	first := entries[0]
	if first.NewsID != "k10014683071000" {
		t.Errorf("NewsID = %q, expected k10014683071000", first.NewsID)
	}
	if first.URL != "https://news.web.nhk/news/easy/k10014683071000/k10014683071000.html" {
		t.Errorf("URL = %q, expected the canonical article URL", first.URL)
	}
	if first.Date != "2025-08-20" {
		t.Errorf("Date = %q, expected the date group key", first.Date)
	}
	if !first.HasVoice {
		t.Error("HasVoice = false, expected true")
	}
	// Easy-news image preferred over the web one.
	if first.ImageURL != "https://img.example/easy.jpg" || first.ImageSource != "easy" {
		t.Errorf("image = %q/%q, expected the easy image", first.ImageURL, first.ImageSource)
	}

	second := entries[1]
	if second.ImageURL != "https://img.example/web2.jpg" || second.ImageSource != "web" {
		t.Errorf("image = %q/%q, expected the web fallback image", second.ImageURL, second.ImageSource)
	}
}

func TestFeed_Entries_maxArticles(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedPayload)
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(
		WithFeedURL(server.URL),
		WithFeedMaxArticles(1),
		WithFeedLogger(discardLogger()),
	)

	entries, err := feed.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries() returned unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Entries() returned %d entries, expected 1", len(entries))
	}
}

func TestFeed_Entries_htmlFallback(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/news-list.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/news/easy/k10014683071000/k10014683071000.html">台風のニュース</a>
			<a href="/news/easy/k10014683071000/k10014683071000.html">台風のニュース</a>
			<a href="/about.html">サイトについて</a>
		</body></html>`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	feed := NewFeed(
		WithFeedURL(server.URL+"/news-list.json"),
		WithFeedBaseURL(server.URL+"/"),
		WithFeedLogger(discardLogger()),
	)

	entries, err := feed.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries() returned unexpected error: %v", err)
	}

	// Duplicate links collapse, non-article links are ignored.
	if len(entries) != 1 {
		t.Fatalf("Entries() returned %d entries, expected 1", len(entries))
	}
	if entries[0].Title != "台風のニュース" {
		t.Errorf("Title = %q, expected the link text", entries[0].Title)
	}
	if entries[0].URL != server.URL+"/news/easy/k10014683071000/k10014683071000.html" {
		t.Errorf("URL = %q, expected the resolved link", entries[0].URL)
	}
}

func TestFeed_Entries_bothSourcesDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(
		WithFeedURL(server.URL+"/news-list.json"),
		WithFeedBaseURL(server.URL+"/"),
		WithFeedLogger(discardLogger()),
	)

	if _, err := feed.Entries(context.Background()); !errors.Is(err, ErrFeedUnavailable) {
		t.Errorf("Entries() error = %v, expected ErrFeedUnavailable", err)
	}
}

func TestFeed_sendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(server.Close)

	feed := NewFeed(
		WithFeedURL(server.URL),
		WithFeedToken("token-value"),
		WithFeedLogger(discardLogger()),
	)
	if _, err := feed.Entries(context.Background()); err != nil {
		t.Fatalf("Entries() returned unexpected error: %v", err)
	}

	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, expected the browser default", gotUA)
	}
	if gotCookie != "z_at=token-value" {
		t.Errorf("Cookie = %q, expected the z_at token", gotCookie)
	}
}
