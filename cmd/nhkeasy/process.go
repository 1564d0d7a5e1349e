package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/basjacobs93/nhk-web-easy/internal/furigana"
	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/basjacobs93/nhk-web-easy/internal/pipeline"
	"github.com/basjacobs93/nhk-web-easy/internal/report"
	"github.com/basjacobs93/nhk-web-easy/internal/storage"
	"github.com/basjacobs93/nhk-web-easy/internal/wanikani"
	"github.com/spf13/cobra"
)

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Annotate fetched articles with furigana",
		Long: `Process loads the raw articles from the data directory, segments every
title and body with the morphological tokenizer, annotates kanji with
furigana based on the synced level table (or the learned-kanji set when
no table is present), computes kanji statistics, and saves the enriched
articles back to the data directory.

A run report is printed when processing finishes. One failing article
never stops the rest of the batch; failures are listed in the report.

Examples:
  # Process with the configured settings
  nhkeasy process

  # Process with eight workers and a Markdown report
  nhkeasy process --concurrency 8 --format markdown

  # Write the report to a file instead of stdout
  nhkeasy process --report-file report.md --format markdown`,
		RunE: runProcessCmd,
	}

	cmd.Flags().IntP("concurrency", "j", 0,
		"Number of articles annotated in parallel (0 uses the configured value)")
	cmd.Flags().StringP("format", "f", "",
		"Report format: simple, markdown, or json (default from config)")
	cmd.Flags().StringP("report-file", "o", "",
		"Write the run report to this file instead of stdout")

	return cmd
}

// runProcessCmd executes the process command.
func runProcessCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if n, err := cmd.Flags().GetInt("concurrency"); err == nil && n > 0 {
		cfg.Concurrency = n
	}
	if format, err := cmd.Flags().GetString("format"); err == nil && format != "" {
		cfg.ReportFormat = format
	}
	if path, err := cmd.Flags().GetString("report-file"); err == nil && path != "" {
		cfg.ReportFile = path
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	store := storage.NewStore(cfg.DataDir, logger)
	articles, err := store.LoadArticles(storage.RawArticlesFile)
	if err != nil {
		return err
	}

	summary, err := processArticles(ctx, cfg, logger, articles)
	if err != nil {
		return err
	}

	return writeReport(cfg, summary)
}

// buildProcessor assembles the furigana processor from the configuration:
// the learned-kanji policy, the tokenizer reading source, and the
// segmenter they drive.
func buildProcessor(cfg *config.Config, logger *slog.Logger) (*furigana.Processor, error) {
	source, err := furigana.NewKagomeSource(furigana.Dict(cfg.Dict))
	if err != nil {
		return nil, fmt.Errorf("failed to load the %s dictionary: %w", cfg.Dict, err)
	}

	segmenter := furigana.NewSegmenter(buildPolicy(cfg, logger), source,
		furigana.WithSegmenterLogger(logger))

	return furigana.NewProcessor(segmenter,
		furigana.WithPreviewChars(cfg.PreviewChars),
		furigana.WithProcessorLogger(logger)), nil
}

// buildPolicy selects the knowledge policy. When a level table exists in
// the data directory the leveled policy is used, so annotations carry the
// WaniKani level of each kanji; otherwise the binary learned-kanji set
// applies.
func buildPolicy(cfg *config.Config, logger *slog.Logger) furigana.KnowledgePolicy {
	if levelPath := cfg.LevelTablePath(); levelPath != "" {
		if _, err := os.Stat(levelPath); err == nil {
			levels := wanikani.LoadLevels(levelPath, logger)
			logger.Info("level table loaded", "kanji", levels.Len())
			return furigana.NewLeveledPolicy(levels)
		}
	}

	policy := furigana.NewLearnedSet(cfg.LearnedKanjiPath(), logger)
	logger.Info("learned-kanji set loaded", "kanji", policy.Len())
	return policy
}

// processArticles enriches the articles in parallel and saves the result
// to the processed store. The returned summary covers the whole run.
func processArticles(ctx context.Context, cfg *config.Config, logger *slog.Logger, articles []*model.Article) (*model.RunSummary, error) {
	processor, err := buildProcessor(cfg, logger)
	if err != nil {
		return nil, err
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(processor, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	summary, err := bp.ProcessBatch(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("processing failed: %w", err)
	}

	store := storage.NewStore(cfg.DataDir, logger)
	if err := store.SaveArticles(storage.ProcessedArticlesFile, articles); err != nil {
		return nil, err
	}

	return summary, nil
}

// writeReport writes the run report in the configured format to stdout or
// to the configured report file.
func writeReport(cfg *config.Config, summary *model.RunSummary) error {
	var output io.Writer = os.Stdout

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort close on the error path
		output = f
	}

	writer, err := report.NewWriter(cfg.ReportFormat, output)
	if err != nil {
		return err
	}

	_, err = writer.Write(summary)
	return err
}
