package wanikani

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Defaults for the WaniKani client.
const (
	// DefaultBaseURL is the WaniKani API v2 endpoint.
	DefaultBaseURL = "https://api.wanikani.com/v2"

	// DefaultCacheDuration keeps API responses for a day. Assignment data
	// moves slowly; a daily sync is plenty.
	DefaultCacheDuration = 24 * time.Hour

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second

	// subjectChunkSize is the number of subject ids requested per call.
	// The API tolerates roughly this many ids in one query string.
	subjectChunkSize = 100

	// tokenEnvVar names the environment variable consulted when no token
	// is passed explicitly.
	tokenEnvVar = "WANIKANI_API_TOKEN" //nolint:gosec // Variable name, not a credential
)

// Client is a read-only WaniKani API v2 client with on-disk response
// caching.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	cacheDir      string
	cacheDuration time.Duration
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCacheDir enables response caching under dir. Without it every
// request goes to the network.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		c.cacheDir = dir
	}
}

// WithCacheDuration sets how long cached responses stay valid.
func WithCacheDuration(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cacheDuration = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a WaniKani client. An empty token falls back to the
// WANIKANI_API_TOKEN environment variable; if both are empty,
// ErrMissingToken is returned.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv(tokenEnvVar)
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL:       DefaultBaseURL,
		token:         token,
		cacheDuration: DefaultCacheDuration,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// collectionPage is the common envelope of paginated WaniKani responses.
type collectionPage struct {
	Pages struct {
		NextURL string `json:"next_url"`
	} `json:"pages"`
	Data []json.RawMessage `json:"data"`
}

// assignment is the slice of an assignment resource the sync needs.
type assignment struct {
	Data struct {
		SubjectID  int    `json:"subject_id"`
		UnlockedAt string `json:"unlocked_at"`
	} `json:"data"`
}

// subject is the slice of a subject resource the sync needs.
type subject struct {
	Data struct {
		Characters string `json:"characters"`
	} `json:"data"`
}

// UserInfo is the subset of the user resource worth surfacing.
type UserInfo struct {
	Username string `json:"username"`
	Level    int    `json:"level"`
}

// get performs one cached GET against the API and returns the raw
// response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	key := endpoint
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if cached := c.loadCache(key); cached != nil {
		c.logger.Debug("using cached wanikani response", "endpoint", endpoint)
		return cached, nil
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("wanikani api request", "endpoint", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wanikani request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.saveCache(key, body)
	return body, nil
}

// collect pages through a collection endpoint, following pages.next_url
// until exhausted, and returns every resource.
func (c *Client) collect(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for endpoint != "" {
		body, err := c.get(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}

		var page collectionPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode collection page: %w", err)
		}
		all = append(all, page.Data...)

		endpoint, params, err = c.nextPage(page.Pages.NextURL)
		if err != nil {
			return nil, err
		}
	}

	return all, nil
}

// nextPage turns a pages.next_url value back into an endpoint and query
// parameters relative to the client's base URL. An empty next_url ends
// pagination.
func (c *Client) nextPage(nextURL string) (string, url.Values, error) {
	if nextURL == "" {
		return "", nil, nil
	}

	parsed, err := url.Parse(nextURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse next_url %q: %w", nextURL, err)
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	endpoint := strings.TrimPrefix(parsed.Path, base.Path)
	return strings.TrimLeft(endpoint, "/"), parsed.Query(), nil
}

// User fetches the account behind the token. Used by sync to confirm the
// token works before the heavier collection calls.
func (c *Client) User(ctx context.Context) (*UserInfo, error) {
	body, err := c.get(ctx, "user", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data UserInfo `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode user resource: %w", err)
	}
	return &envelope.Data, nil
}

// LearnedKanji returns the sorted set of kanji characters the learner has
// unlocked: kanji assignments with a non-null unlocked_at, resolved to
// their subject characters.
func (c *Client) LearnedKanji(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("subject_types", "kanji")
	params.Set("unlocked", "true")

	raw, err := c.collect(ctx, "assignments", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kanji assignments: %w", err)
	}

	var subjectIDs []int
	for _, item := range raw {
		var a assignment
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("failed to decode assignment: %w", err)
		}
		if a.Data.UnlockedAt != "" {
			subjectIDs = append(subjectIDs, a.Data.SubjectID)
		}
	}

	if len(subjectIDs) == 0 {
		c.logger.Info("no unlocked kanji assignments found")
		return []string{}, nil
	}

	c.logger.Info("fetching kanji subject details", "count", len(subjectIDs))

	set := make(map[string]struct{})
	for start := 0; start < len(subjectIDs); start += subjectChunkSize {
		end := min(start+subjectChunkSize, len(subjectIDs))
		if err := c.collectSubjects(ctx, subjectIDs[start:end], set); err != nil {
			return nil, err
		}
	}

	kanji := make([]string, 0, len(set))
	for k := range set {
		kanji = append(kanji, k)
	}
	sort.Strings(kanji)
	return kanji, nil
}

// collectSubjects resolves one chunk of subject ids into characters.
func (c *Client) collectSubjects(ctx context.Context, ids []int, set map[string]struct{}) error {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("types", "kanji")
	params.Set("ids", strings.Join(idStrings, ","))

	raw, err := c.collect(ctx, "subjects", params)
	if err != nil {
		return fmt.Errorf("failed to fetch kanji subjects: %w", err)
	}

	for _, item := range raw {
		var s subject
		if err := json.Unmarshal(item, &s); err != nil {
			return fmt.Errorf("failed to decode subject: %w", err)
		}
		if s.Data.Characters != "" {
			set[s.Data.Characters] = struct{}{}
		}
	}
	return nil
}

// learnedKanjiFile is the on-disk shape of the learned-kanji snapshot
// consumed by the binary knowledge policy.
type learnedKanjiFile struct {
	UpdatedAt  time.Time `json:"updated_at"`
	KanjiCount int       `json:"kanji_count"`
	Kanji      []string  `json:"kanji"`
}

// SaveLearnedKanji syncs the learned set and writes it to path, returning
// the number of kanji saved.
func (c *Client) SaveLearnedKanji(ctx context.Context, path string) (int, error) {
	kanji, err := c.LearnedKanji(ctx)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	file := learnedKanjiFile{
		UpdatedAt:  time.Now(),
		KanjiCount: len(kanji),
		Kanji:      kanji,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode learned kanji: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return 0, fmt.Errorf("failed to write learned kanji file: %w", err)
	}

	c.logger.Info("saved learned kanji", "count", len(kanji), "path", path)
	return len(kanji), nil
}
