package model

import "time"

// RunSummary aggregates the outcome of one pipeline run for reporting.
type RunSummary struct {
	// RunID is the ULID stamped on this run. It appears in logs and in
	// generated reports so runs can be correlated.
	RunID string `json:"run_id"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Fetched is the number of articles that entered the run.
	Fetched int `json:"fetched"`

	// Enriched is the number of articles processed successfully.
	Enriched int `json:"enriched"`

	// Failed is the number of articles whose processing failed.
	// Failures never abort the rest of the run.
	Failed int `json:"failed"`

	// Skipped is the number of articles skipped (e.g. empty content).
	Skipped int `json:"skipped"`

	// TotalKanji, KnownKanji and UnknownKanji aggregate the per-article
	// statistics across the whole run.
	TotalKanji   int `json:"total_kanji"`
	KnownKanji   int `json:"known_kanji"`
	UnknownKanji int `json:"unknown_kanji"`

	// Articles lists the per-article results in input order.
	Articles []ArticleResult `json:"articles,omitempty"`

	// Failures lists the per-article failures in input order.
	Failures []Failure `json:"failures,omitempty"`
}

// ArticleResult is one successfully processed article in a RunSummary.
type ArticleResult struct {
	// Title is the plain article title.
	Title string `json:"title"`

	// Slug is the article's generated page name.
	Slug string `json:"slug"`

	// TotalKanji, KnownKanji and UnknownKanji mirror the article's stats.
	TotalKanji   int `json:"total_kanji"`
	KnownKanji   int `json:"known_kanji"`
	UnknownKanji int `json:"unknown_kanji"`
}

// Failure records one article that could not be processed.
type Failure struct {
	// URL identifies the failed article.
	URL string `json:"url"`

	// Error is the failure message.
	Error string `json:"error"`
}

// Duration returns the elapsed run time.
func (s *RunSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// AddArticle records a successfully processed article and folds its
// statistics into the run aggregates.
func (s *RunSummary) AddArticle(a *Article) {
	result := ArticleResult{
		Title: a.Title,
		Slug:  a.Slug(),
	}
	if a.Stats != nil {
		result.TotalKanji = a.Stats.TotalKanji
		result.KnownKanji = a.Stats.KnownKanji
		result.UnknownKanji = a.Stats.UnknownKanji
		s.TotalKanji += a.Stats.TotalKanji
		s.KnownKanji += a.Stats.KnownKanji
		s.UnknownKanji += a.Stats.UnknownKanji
	}
	s.Articles = append(s.Articles, result)
	s.Enriched++
}

// AddFailure records a failed article.
func (s *RunSummary) AddFailure(url string, err error) {
	s.Failures = append(s.Failures, Failure{URL: url, Error: err.Error()})
	s.Failed++
}
