package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/basjacobs93/nhk-web-easy/internal/nhk"
	"github.com/basjacobs93/nhk-web-easy/internal/storage"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Scrape the latest NHK News Web Easy articles",
		Long: `Fetch downloads the NHK News Web Easy feed, scrapes each article page,
downloads article images, and saves the raw articles to the data
directory for processing.

Examples:
  # Fetch with the configured limits
  nhkeasy fetch

  # Fetch only the five newest articles
  nhkeasy fetch --max-articles 5`,
		RunE: runFetchCmd,
	}

	cmd.Flags().IntP("max-articles", "n", 0,
		"Maximum number of articles to fetch (0 uses the configured value)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if n, err := cmd.Flags().GetInt("max-articles"); err == nil && n > 0 {
		cfg.MaxArticles = n
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	articles, err := fetchArticles(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d article(s) into %s\n",
		len(articles), storage.NewStore(cfg.DataDir, logger).Path(storage.RawArticlesFile))
	return nil
}

// fetchArticles scrapes the feed and article pages and saves the raw
// articles to the store. It returns the fetched articles.
func fetchArticles(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*model.Article, error) {
	// The feed sometimes answers without a token, so a bad token is a
	// warning, not a stop.
	if cfg.NHKToken != "" {
		if err := nhk.CheckToken(cfg.NHKToken, logger); err != nil {
			logger.Warn("access token check failed, fetching anyway", "error", err)
		}
	}

	feed := nhk.NewFeed(
		nhk.WithFeedURL(cfg.FeedURL),
		nhk.WithFeedBaseURL(cfg.BaseURL),
		nhk.WithFeedUserAgent(cfg.UserAgent),
		nhk.WithFeedToken(cfg.NHKToken),
		nhk.WithFeedMaxArticles(cfg.MaxArticles),
		nhk.WithFeedHTTPClient(&http.Client{Timeout: cfg.Timeout.Std()}),
		nhk.WithFeedLogger(logger),
	)

	entries, err := feed.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read article feed: %w", err)
	}
	logger.Info("feed read", "entries", len(entries))

	fetcher := nhk.NewFetcher(
		nhk.WithFetcherUserAgent(cfg.UserAgent),
		nhk.WithFetcherToken(cfg.NHKToken),
		nhk.WithFetchDelay(cfg.FetchDelay.Std()),
		nhk.WithFetcherMaxBodySize(cfg.MaxBodySize),
		nhk.WithFetcherHTTPClient(&http.Client{Timeout: cfg.Timeout.Std()}),
		nhk.WithImagesDir(filepath.Join(cfg.OutputDir, "images")),
		nhk.WithFetcherLogger(logger),
	)

	articles := fetcher.FetchAll(ctx, entries)

	store := storage.NewStore(cfg.DataDir, logger)
	if err := store.SaveArticles(storage.RawArticlesFile, articles); err != nil {
		return nil, err
	}

	return articles, nil
}
