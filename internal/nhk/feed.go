package nhk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// Defaults for the feed client.
const (
	// DefaultFeedURL lists the recent easy-news articles grouped by date.
	DefaultFeedURL = "https://news.web.nhk/news/easy/news-list.json"

	// DefaultBaseURL is the easy-news index page, used by the HTML
	// fallback when the feed is down.
	DefaultBaseURL = "https://news.web.nhk/news/easy/"

	// DefaultUserAgent mimics a desktop browser. The site serves the
	// feed only to browser-looking clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxArticles caps how many feed entries one run picks up.
	DefaultMaxArticles = 20

	// DefaultFeedTimeout bounds the feed request.
	DefaultFeedTimeout = 30 * time.Second
)

// FeedEntry is one article listing from the news feed.
type FeedEntry struct {
	URL             string
	Title           string
	TitleWithRuby   string
	NewsID          string
	Date            string
	PublicationTime string
	HasVoice        bool
	HasImage        bool
	ImageURI        string
	ImageURL        string
	ImageSource     string
	VoiceURI        string
	OriginalWebURL  string
}

// Feed lists recent articles from the news-list.json endpoint, falling
// back to scraping the index page for article links when the feed fails.
type Feed struct {
	feedURL     string
	baseURL     string
	userAgent   string
	token       string
	maxArticles int
	httpClient  *http.Client
	logger      *slog.Logger
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithFeedURL overrides the feed endpoint. Used by tests.
func WithFeedURL(feedURL string) FeedOption {
	return func(f *Feed) {
		f.feedURL = feedURL
	}
}

// WithFeedBaseURL overrides the index page used by the HTML fallback.
func WithFeedBaseURL(baseURL string) FeedOption {
	return func(f *Feed) {
		f.baseURL = baseURL
	}
}

// WithFeedUserAgent sets a custom User-Agent header.
func WithFeedUserAgent(ua string) FeedOption {
	return func(f *Feed) {
		f.userAgent = ua
	}
}

// WithFeedToken sets the z_at access token sent as a cookie.
func WithFeedToken(token string) FeedOption {
	return func(f *Feed) {
		f.token = token
	}
}

// WithFeedMaxArticles caps the number of entries returned.
func WithFeedMaxArticles(n int) FeedOption {
	return func(f *Feed) {
		if n > 0 {
			f.maxArticles = n
		}
	}
}

// WithFeedHTTPClient sets a custom HTTP client.
func WithFeedHTTPClient(client *http.Client) FeedOption {
	return func(f *Feed) {
		f.httpClient = client
	}
}

// WithFeedLogger sets a custom logger for the feed.
func WithFeedLogger(logger *slog.Logger) FeedOption {
	return func(f *Feed) {
		f.logger = logger
	}
}

// NewFeed creates a feed client.
func NewFeed(opts ...FeedOption) *Feed {
	f := &Feed{
		feedURL:     DefaultFeedURL,
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		maxArticles: DefaultMaxArticles,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: DefaultFeedTimeout}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// feedItem is one article object inside the news-list.json payload.
type feedItem struct {
	Title           string `json:"title"`
	TitleWithRuby   string `json:"title_with_ruby"`
	NewsID          string `json:"news_id"`
	PublicationTime string `json:"news_publication_time"`
	HasVoice        bool   `json:"has_news_easy_voice"`
	HasImage        bool   `json:"has_news_easy_image"`
	EasyImageURI    string `json:"news_easy_image_uri"`
	WebImageURI     string `json:"news_web_image_uri"`
	VoiceURI        string `json:"news_easy_voice_uri"`
	WebURL          string `json:"news_web_url"`
}

// Entries lists recent articles, newest date first, capped at the
// configured maximum. When the JSON feed fails the index page is scraped
// for article links instead; only if both fail is an error returned.
func (f *Feed) Entries(ctx context.Context) ([]FeedEntry, error) {
	entries, err := f.feedEntries(ctx)
	if err == nil {
		return entries, nil
	}
	f.logger.Warn("news feed failed, falling back to html scraping", "error", err)

	entries, fallbackErr := f.fallbackEntries(ctx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: feed: %v, fallback: %v", ErrFeedUnavailable, err, fallbackErr)
	}
	return entries, nil
}

// feedEntries parses the news-list.json payload: a list of objects whose
// keys are dates and whose values are article arrays.
func (f *Feed) feedEntries(ctx context.Context) ([]FeedEntry, error) {
	body, err := f.get(ctx, f.feedURL)
	if err != nil {
		return nil, err
	}

	var payload []map[string][]feedItem
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode news feed: %w", err)
	}

	var entries []FeedEntry
	for _, dateGroup := range payload {
		// Date keys sorted newest first for deterministic output.
		dates := make([]string, 0, len(dateGroup))
		for date := range dateGroup {
			dates = append(dates, date)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))

		for _, date := range dates {
			for _, item := range dateGroup[date] {
				if item.Title == "" || item.NewsID == "" {
					continue
				}
				entries = append(entries, f.entryFromItem(item, date))
				if len(entries) >= f.maxArticles {
					return entries, nil
				}
			}
		}
	}

	f.logger.Info("news feed listed articles", "count", len(entries))
	return entries, nil
}

// entryFromItem maps one feed object to a FeedEntry, resolving the image
// URL with easy-news images preferred over the web-news ones.
func (f *Feed) entryFromItem(item feedItem, date string) FeedEntry {
	imageURL, imageSource := "", "none"
	switch {
	case item.EasyImageURI != "":
		imageURL, imageSource = item.EasyImageURI, "easy"
	case item.WebImageURI != "":
		imageURL, imageSource = item.WebImageURI, "web"
	}

	return FeedEntry{
		URL:             model.ArticleURL(item.NewsID),
		Title:           item.Title,
		TitleWithRuby:   item.TitleWithRuby,
		NewsID:          item.NewsID,
		Date:            date,
		PublicationTime: item.PublicationTime,
		HasVoice:        item.HasVoice,
		HasImage:        item.HasImage,
		ImageURI:        item.EasyImageURI,
		ImageURL:        imageURL,
		ImageSource:     imageSource,
		VoiceURI:        item.VoiceURI,
		OriginalWebURL:  item.WebURL,
	}
}

// fallbackEntries scrapes the index page for k10 article links.
func (f *Feed) fallbackEntries(ctx context.Context) ([]FeedEntry, error) {
	body, err := f.get(ctx, f.baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	base, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	links := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" &&
			strings.Contains(attrVal(n, "href"), "k10")
	})

	var entries []FeedEntry
	seen := make(map[string]struct{})
	for _, link := range links {
		ref, err := url.Parse(attrVal(link, "href"))
		if err != nil {
			continue
		}
		full := base.ResolveReference(ref).String()
		title := nodeText(link)
		if title == "" {
			continue
		}
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}

		entries = append(entries, FeedEntry{URL: full, Title: title})
		if len(entries) >= f.maxArticles {
			break
		}
	}

	f.logger.Info("html fallback listed articles", "count", len(entries))
	return entries, nil
}

// get performs one GET with the browser headers the site expects.
func (f *Feed) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.token != "" {
		req.Header.Set("Cookie", "z_at="+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
