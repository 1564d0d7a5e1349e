package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent enrichment of multiple articles.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-article execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each article.
	// We use a factory to ensure each article gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of articles enriched at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// mu guards the run summary during concurrent updates.
	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of articles enriched concurrently.
// Default is 4 if not specified; annotation is CPU-bound, so there is little
// to gain from going much wider.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each article to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// articles and allows for per-article customization if needed.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch enriches multiple articles concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each article gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// A failed article never aborts the batch: the failure is recorded in the
// returned RunSummary and the rest of the articles proceed. The error return
// indicates cancellation, not per-article failures.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, articles []*model.Article) (*model.RunSummary, error) {
	summary := &model.RunSummary{
		RunID:     ulid.Make().String(),
		StartedAt: time.Now(),
		Fetched:   len(articles),
	}

	bp.logger.Info("starting batch processing",
		"run_id", summary.RunID,
		"total_articles", len(articles),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, article := range articles {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("enriching article",
				"url", article.URL,
				"index", i+1,
				"total", len(articles),
			)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, article)

			bp.mu.Lock()
			defer bp.mu.Unlock()

			switch {
			case errors.Is(err, ErrArticleSkipped):
				bp.logger.Info("article skipped",
					"url", article.URL,
					"reason", err,
				)
				summary.Skipped++
			case err != nil:
				bp.logger.Warn("article failed",
					"url", article.URL,
					"error", err,
				)
				summary.AddFailure(article.URL, err)
				// Don't return the error to errgroup: the rest of the
				// batch should still run.
			default:
				summary.AddArticle(article)
			}

			return nil
		})
	}

	// Wait for all articles to complete
	err := g.Wait()
	summary.FinishedAt = time.Now()

	bp.logger.Info("batch processing complete",
		"run_id", summary.RunID,
		"enriched", summary.Enriched,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Duration(),
	)

	return summary, err
}

// ProcessBatchWithCallback enriches multiple articles and calls a callback
// for each completed article. This is useful for streaming results.
//
// The callback receives the article, its index in the original slice, and
// the pipeline error (nil on success). The callback is called from the
// goroutine that finished the article, so it should be thread-safe if it
// accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	articles []*model.Article,
	callback func(article *model.Article, index int, err error),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_articles", len(articles),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, article := range articles {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, article)

			callback(article, i, err)

			return nil
		})
	}

	return g.Wait()
}
