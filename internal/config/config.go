package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
// These mirror the behavior of the NHK News Web Easy site and typical
// home-network conditions.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "nhkeasy"

	// DefaultDataDir holds the scraped and processed article stores.
	DefaultDataDir = "data"

	// DefaultOutputDir receives the generated static site.
	DefaultOutputDir = "docs"

	// DefaultFeedURL is the NHK easy-news article listing.
	DefaultFeedURL = "https://news.web.nhk/news/easy/news-list.json"

	// DefaultBaseURL is the root all relative article links resolve against.
	DefaultBaseURL = "https://news.web.nhk"

	// DefaultMaxArticles bounds one fetch run. The feed lists far more, but
	// enriching takes tokenizer time and the site only shows recent news.
	DefaultMaxArticles = 20

	// DefaultFetchDelay is the pause between article fetches. This is a
	// politeness setting; NHK serves these pages to humans reading news.
	DefaultFetchDelay = 1 * time.Second

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is a browser user agent. The NHK endpoints refuse
	// obvious bot agents, so the scraper presents as a desktop browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for article pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultConcurrency is the number of articles enriched at once.
	DefaultConcurrency = 4

	// DefaultPreviewChars is the visible-character budget for index-card
	// previews.
	DefaultPreviewChars = 200

	// DefaultDict is the kagome tokenizer dictionary used for reading
	// synthesis.
	DefaultDict = "ipa"

	// DefaultCacheDuration is how long WaniKani API responses stay fresh.
	DefaultCacheDuration = 24 * time.Hour

	// DefaultReportFormat is the run report format.
	DefaultReportFormat = "simple"

	// DefaultLearnedKanjiFile is the learned-kanji store written by sync.
	DefaultLearnedKanjiFile = "learned_kanji.json"

	// DefaultLevelTableFile is the optional kanji-to-level table.
	DefaultLevelTableFile = "wanikani_levels.json"
)

// Duration wraps time.Duration so YAML configs can use values like "1s"
// or "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all configuration options for the pipeline.
// It is populated from the YAML config file, overridden by CLI flags, and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ScrapeConfig, SiteConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// DataDir is the directory holding articles.json,
	// processed_articles.json, learned_kanji.json and downloaded images.
	DataDir string `yaml:"data_dir"`

	// OutputDir is the directory the static site is generated into.
	OutputDir string `yaml:"output_dir"`

	// CacheDir holds the WaniKani response cache. Defaults to the XDG
	// cache directory when empty.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// FeedURL is the NHK easy-news article listing endpoint.
	FeedURL string `yaml:"feed_url"`

	// BaseURL is the root relative article links resolve against.
	BaseURL string `yaml:"base_url"`

	// MaxArticles bounds how many articles one fetch run takes from the
	// feed, newest first.
	MaxArticles int `yaml:"max_articles"`

	// FetchDelay is the pause between article page fetches.
	FetchDelay Duration `yaml:"fetch_delay"`

	// Timeout is the per-request HTTP timeout.
	Timeout Duration `yaml:"timeout"`

	// UserAgent is the User-Agent header sent to NHK endpoints.
	UserAgent string `yaml:"user_agent"`

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	MaxBodySize int64 `yaml:"max_body_size"`

	// Concurrency is the number of articles enriched concurrently.
	Concurrency int `yaml:"concurrency"`

	// PreviewChars is the visible-character budget for index previews.
	PreviewChars int `yaml:"preview_chars"`

	// Dict selects the tokenizer dictionary: "ipa" or "uni".
	Dict string `yaml:"dict"`

	// SiteTitle and SiteDescription fill the generated site chrome.
	SiteTitle       string `yaml:"site_title,omitempty"`
	SiteDescription string `yaml:"site_description,omitempty"`

	// LearnedKanjiFile names the learned-kanji store inside DataDir.
	LearnedKanjiFile string `yaml:"learned_kanji_file"`

	// LevelTableFile names the optional kanji-to-level table inside
	// DataDir. When the file is missing the site falls back to the binary
	// learned/unlearned rendering.
	LevelTableFile string `yaml:"level_table_file"`

	// WaniKaniToken is the WaniKani API v2 token. Usually supplied via
	// the WANIKANI_API_TOKEN environment variable, not the config file.
	WaniKaniToken string `yaml:"wanikani_token,omitempty"`

	// NHKToken is the z_at cookie value for authenticated NHK requests.
	// Usually supplied via the NHK_Z_AT_TOKEN environment variable.
	NHKToken string `yaml:"nhk_token,omitempty"`

	// CacheDuration is how long WaniKani responses stay fresh.
	CacheDuration Duration `yaml:"cache_duration"`

	// ReportFormat selects the run report output: "simple", "markdown"
	// or "json".
	ReportFormat string `yaml:"report_format"`

	// ReportFile is the output file path for the run report.
	// When empty, the report is written to stdout.
	ReportFile string `yaml:"report_file,omitempty"`

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool `yaml:"verbose,omitempty"`
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		DataDir:          DefaultDataDir,
		OutputDir:        DefaultOutputDir,
		CacheDir:         XDGCacheDir(),
		FeedURL:          DefaultFeedURL,
		BaseURL:          DefaultBaseURL,
		MaxArticles:      DefaultMaxArticles,
		FetchDelay:       Duration(DefaultFetchDelay),
		Timeout:          Duration(DefaultTimeout),
		UserAgent:        DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
		Concurrency:      DefaultConcurrency,
		PreviewChars:     DefaultPreviewChars,
		Dict:             DefaultDict,
		LearnedKanjiFile: DefaultLearnedKanjiFile,
		LevelTableFile:   DefaultLevelTableFile,
		CacheDuration:    Duration(DefaultCacheDuration),
		ReportFormat:     DefaultReportFormat,
	}
}

// LearnedKanjiPath returns the absolute path of the learned-kanji store.
func (c *Config) LearnedKanjiPath() string {
	return filepath.Join(c.DataDir, c.LearnedKanjiFile)
}

// LevelTablePath returns the absolute path of the level table.
func (c *Config) LevelTablePath() string {
	return filepath.Join(c.DataDir, c.LevelTableFile)
}

// XDGConfigDir returns the XDG config directory for the application.
// On Linux: ~/.config/nhkeasy
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for the application.
// On Linux: ~/.cache/nhkeasy
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any work begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.MaxArticles <= 0 {
		return ErrInvalidMaxArticles
	}
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.PreviewChars <= 0 {
		return ErrInvalidPreviewChars
	}
	if c.Dict != "ipa" && c.Dict != "uni" {
		return fmt.Errorf("%w: %q", ErrInvalidDict, c.Dict)
	}
	switch c.ReportFormat {
	case "simple", "markdown", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReportFormat, c.ReportFormat)
	}
	return nil
}
