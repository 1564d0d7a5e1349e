package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/basjacobs93/nhk-web-easy/internal/furigana"
	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// ValidateStep checks that an article carries enough data to be worth
// enriching. Articles without any content source are skipped, not failed:
// the feed regularly lists entries whose pages turn out to be empty shells.
//
// Design decision: Validation is a separate step rather than a guard inside
// annotation because:
// 1. It keeps the skip/fail distinction in one place
// 2. It runs before any expensive tokenization work
// 3. Future checks (duplicate detection, date filters) slot in here
type ValidateStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// ValidateStepOption configures a ValidateStep.
type ValidateStepOption func(*ValidateStep)

// WithValidateLogger sets a custom logger for the validation step.
func WithValidateLogger(logger *slog.Logger) ValidateStepOption {
	return func(s *ValidateStep) {
		s.logger = logger
	}
}

// NewValidateStep creates a new validation step.
func NewValidateStep(opts ...ValidateStepOption) *ValidateStep {
	s := &ValidateStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, article *model.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article has no url")
	}
	if article.Content == "" && article.RawHTML == "" {
		return fmt.Errorf("%w: %s has no content", ErrArticleSkipped, article.URL)
	}
	if article.Title == "" && article.TitleWithRuby == "" {
		s.logger.Debug("article has no title", "url", article.URL)
	}
	return nil
}

// AnnotateStep runs furigana annotation on an article: segmentation of the
// title and body, toggle rendering, preview truncation, and kanji
// statistics.
//
// Design decision: The step is a thin adapter over furigana.Processor
// because:
// 1. The processor is reusable outside the pipeline (stats command, tests)
// 2. The step layer owns pipeline concerns (naming, logging, cancellation)
// 3. A single shared processor keeps the tokenizer's reading cache warm
//    across the whole batch
type AnnotateStep struct {
	// processor performs the actual enrichment. It is safe for concurrent
	// use, so one instance is shared across all pipelines of a batch.
	processor *furigana.Processor

	// logger for structured logging.
	logger *slog.Logger
}

// AnnotateStepOption configures an AnnotateStep.
type AnnotateStepOption func(*AnnotateStep)

// WithAnnotateLogger sets a custom logger for the annotation step.
func WithAnnotateLogger(logger *slog.Logger) AnnotateStepOption {
	return func(s *AnnotateStep) {
		s.logger = logger
	}
}

// NewAnnotateStep creates a new annotation step around a shared processor.
func NewAnnotateStep(processor *furigana.Processor, opts ...AnnotateStepOption) *AnnotateStep {
	s := &AnnotateStep{
		processor: processor,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnnotateStep) Name() string {
	return "annotate"
}

// Do executes the annotation step.
func (s *AnnotateStep) Do(ctx context.Context, article *model.Article) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.processor.ProcessArticle(article)

	if article.Stats != nil {
		s.logger.Debug("article annotated",
			"url", article.URL,
			"total_kanji", article.Stats.TotalKanji,
			"unknown_kanji", article.Stats.UnknownKanji,
		)
	}

	return nil
}

// DefaultPipeline creates a pipeline with the standard enrichment steps.
//
// Design decision: We provide a default pipeline because:
// 1. Every caller wants the same validate-then-annotate ordering
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// The processor is shared across invocations, so using this as the factory
// for a BatchProcessor keeps the tokenizer's reading cache shared too.
func DefaultPipeline(processor *furigana.Processor, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	p.AddSteps(
		NewValidateStep(),
		NewAnnotateStep(processor),
	)

	return p
}
