package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidMaxArticles is returned when the article limit is not
	// positive. Zero would make every fetch run a no-op.
	ErrInvalidMaxArticles = errors.New("invalid max articles: must be positive")

	// ErrInvalidFetchDelay is returned when the fetch delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidFetchDelay = errors.New("invalid fetch delay: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency is not
	// positive. Zero workers would stall the enrichment batch.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPreviewChars is returned when the preview budget is not
	// positive.
	ErrInvalidPreviewChars = errors.New("invalid preview chars: must be positive")

	// ErrInvalidDict is returned for an unknown tokenizer dictionary.
	// Supported dictionaries are "ipa" and "uni".
	ErrInvalidDict = errors.New("invalid dictionary")

	// ErrInvalidReportFormat is returned for an unknown report format.
	// Supported formats are "simple", "markdown" and "json".
	ErrInvalidReportFormat = errors.New("invalid report format")
)
