package nhk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// Defaults for the article fetcher.
const (
	// DefaultFetchDelay is the politeness pause between article fetches.
	DefaultFetchDelay = 1 * time.Second

	// DefaultMaxBodySize caps one article page at 5MB. Easy-news pages
	// are well under 1MB; anything larger is not an article.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultFetchTimeout bounds one page request.
	DefaultFetchTimeout = 30 * time.Second
)

// Fetcher retrieves article pages, extracts their content, and optionally
// downloads the accompanying images.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	token       string
	delay       time.Duration
	maxBodySize int64
	imagesDir   string
	logger      *slog.Logger

	// visited dedupes article URLs within one fetcher's lifetime.
	mu      sync.Mutex
	visited map[string]bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetcherHTTPClient sets a custom HTTP client.
func WithFetcherHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithFetcherUserAgent sets a custom User-Agent header.
func WithFetcherUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithFetcherToken sets the z_at access token sent as a cookie.
func WithFetcherToken(token string) FetcherOption {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithFetchDelay sets the pause between article fetches.
func WithFetchDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithFetcherMaxBodySize sets the maximum page body size.
func WithFetcherMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithImagesDir enables image download into dir. Without it images are
// referenced by their remote URL only.
func WithImagesDir(dir string) FetcherOption {
	return func(f *Fetcher) {
		f.imagesDir = dir
	}
}

// WithFetcherLogger sets a custom logger for the fetcher.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates an article fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		delay:       DefaultFetchDelay,
		maxBodySize: DefaultMaxBodySize,
		visited:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// FetchAll fetches every feed entry in order, pausing between requests.
// Per-article failures and empty-content skips are logged and never stop
// the rest of the batch; the successfully fetched articles are returned.
func (f *Fetcher) FetchAll(ctx context.Context, entries []FeedEntry) []*model.Article {
	articles := make([]*model.Article, 0, len(entries))

	for i, entry := range entries {
		if ctx.Err() != nil {
			f.logger.Warn("fetch cancelled", "fetched", len(articles))
			return articles
		}

		article, err := f.FetchArticle(ctx, entry)
		switch {
		case errors.Is(err, ErrEmptyContent):
			f.logger.Info("skipping article with empty content", "url", entry.URL)
			continue
		case err != nil:
			f.logger.Error("failed to fetch article", "url", entry.URL, "error", err)
			continue
		case article == nil:
			// Duplicate URL within this run.
			continue
		}

		articles = append(articles, article)
		f.logger.Info("fetched article",
			"title", article.Title,
			"progress", fmt.Sprintf("%d/%d", i+1, len(entries)),
		)

		if i < len(entries)-1 && f.delay > 0 {
			select {
			case <-ctx.Done():
				return articles
			case <-time.After(f.delay):
			}
		}
	}

	return articles
}

// FetchArticle fetches and extracts one article. A nil article with nil
// error means the URL was already fetched by this fetcher.
func (f *Fetcher) FetchArticle(ctx context.Context, entry FeedEntry) (*model.Article, error) {
	f.mu.Lock()
	if f.visited[entry.URL] {
		f.mu.Unlock()
		return nil, nil
	}
	f.visited[entry.URL] = true
	f.mu.Unlock()

	page, err := f.fetchPage(ctx, entry.URL)
	if err != nil {
		return nil, err
	}

	extracted, err := ExtractArticle(string(page.Body))
	if err != nil {
		return nil, err
	}
	if extracted.Content == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, entry.URL)
	}

	title := extracted.Title
	if title == "" {
		title = entry.Title
	}
	date := entry.Date
	if date == "" {
		date = extracted.Date
	}

	article := &model.Article{
		URL:             entry.URL,
		NewsID:          entry.NewsID,
		Title:           title,
		TitleWithRuby:   entry.TitleWithRuby,
		Content:         extracted.Content,
		RawHTML:         string(page.Body),
		Date:            date,
		PublicationTime: entry.PublicationTime,
		ScrapedAt:       page.FetchedAt.Format(time.RFC3339),
		HasVoice:        entry.HasVoice,
		HasImage:        entry.HasImage,
		ImageURL:        entry.ImageURL,
		ImageURI:        entry.ImageURI,
		ImageSource:     entry.ImageSource,
	}
	if article.ImageSource == "" {
		article.ImageSource = "none"
	}

	if f.imagesDir != "" && entry.ImageURL != "" {
		localPath, err := f.downloadImage(ctx, entry.ImageURL, entry.NewsID)
		if err != nil {
			f.logger.Warn("failed to download article image",
				"url", entry.ImageURL,
				"error", err,
			)
		} else {
			article.LocalImagePath = localPath
		}
	}

	return article, nil
}

// fetchPage retrieves one page with the body size limit applied.
func (f *Fetcher) fetchPage(ctx context.Context, rawURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if f.token != "" {
		req.Header.Set("Cookie", "z_at="+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	page := &model.Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}
	page.ComputeHash()
	return page, nil
}

// downloadImage stores an article image under the images dir and returns
// its site-relative path. Already-downloaded images are not refetched.
func (f *Fetcher) downloadImage(ctx context.Context, imageURL, newsID string) (string, error) {
	filename := imageURL[strings.LastIndex(imageURL, "/")+1:]
	if filename == "" || !strings.Contains(filename, ".") {
		return "", fmt.Errorf("image url %q has no usable file name", imageURL)
	}

	safeName := newsID + "_" + filename
	localPath := filepath.Join(f.imagesDir, safeName)
	relPath := "images/" + safeName

	if _, err := os.Stat(localPath); err == nil {
		return relPath, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, imageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}

	if err := os.MkdirAll(f.imagesDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}
	if err := os.WriteFile(localPath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	f.logger.Debug("downloaded article image", "path", relPath, "bytes", len(data))
	return relPath, nil
}
