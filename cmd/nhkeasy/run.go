package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, process, and generate in one step",
		Long: `Run executes the full pipeline: sync learned kanji from WaniKani, fetch
the latest articles, annotate them with furigana, and generate the
static site.

A failing WaniKani sync is tolerated: the run continues with the
previously synced learned-kanji set (or an empty one) so the site can
still be built when WaniKani is unreachable.

Examples:
  # Full pipeline with the configured settings
  nhkeasy run

  # Full pipeline limited to ten articles
  nhkeasy run --max-articles 10`,
		RunE: runRunCmd,
	}

	cmd.Flags().IntP("max-articles", "n", 0,
		"Maximum number of articles to fetch (0 uses the configured value)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if n, err := cmd.Flags().GetInt("max-articles"); err == nil && n > 0 {
		cfg.MaxArticles = n
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	// Sync first so the freshest learned set drives annotation, but keep
	// going on failure: stale furigana beats no site.
	if count, err := syncLearnedKanji(ctx, cfg, logger); err != nil {
		logger.Warn("WaniKani sync failed, continuing with the existing learned set", "error", err)
	} else {
		fmt.Printf("Synced %d learned kanji\n", count)
	}

	articles, err := fetchArticles(ctx, cfg, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d article(s)\n", len(articles))

	summary, err := processArticles(ctx, cfg, logger, articles)
	if err != nil {
		return err
	}

	if err := generateSite(cfg, logger, articles); err != nil {
		return err
	}
	fmt.Printf("Generated site in %s\n\n", cfg.OutputDir)

	return writeReport(cfg, summary)
}
