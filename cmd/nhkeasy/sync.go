package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/basjacobs93/nhk-web-easy/internal/wanikani"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync learned kanji from WaniKani",
		Long: `Sync pulls the kanji you have learned (guru or higher) from the WaniKani
API and saves them to the data directory. The furigana processor hides
readings for these kanji by default.

The WaniKani token is read from the WANIKANI_API_TOKEN environment
variable or a local .env file. API responses are cached so repeated
syncs stay fast and cheap.

Examples:
  # Sync with a token from the environment
  WANIKANI_API_TOKEN=... nhkeasy sync

  # Sync ignoring the response cache
  nhkeasy sync --no-cache`,
		RunE: runSyncCmd,
	}

	cmd.Flags().Bool("no-cache", false,
		"Bypass the WaniKani response cache for this sync")

	return cmd
}

// runSyncCmd executes the sync command.
func runSyncCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if noCache, err := cmd.Flags().GetBool("no-cache"); err == nil && noCache {
		// Without a cache directory the client always goes to the network.
		cfg.CacheDir = ""
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	count, err := syncLearnedKanji(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Synced %d learned kanji to %s\n", count, cfg.LearnedKanjiPath())
	return nil
}

// syncLearnedKanji pulls learned kanji from WaniKani and saves them to
// the configured learned-kanji file. It returns the number of kanji saved.
func syncLearnedKanji(ctx context.Context, cfg *config.Config, logger *slog.Logger) (int, error) {
	if cfg.WaniKaniToken == "" {
		return 0, errors.New("no WaniKani token configured (set WANIKANI_API_TOKEN or add it to .env)")
	}

	opts := []wanikani.Option{wanikani.WithLogger(logger)}
	if cfg.CacheDir != "" {
		opts = append(opts,
			wanikani.WithCacheDir(cfg.CacheDir),
			wanikani.WithCacheDuration(cfg.CacheDuration.Std()))
	}

	client, err := wanikani.NewClient(cfg.WaniKaniToken, opts...)
	if err != nil {
		return 0, fmt.Errorf("failed to create WaniKani client: %w", err)
	}

	count, err := client.SaveLearnedKanji(ctx, cfg.LearnedKanjiPath())
	if err != nil {
		return 0, fmt.Errorf("failed to sync learned kanji: %w", err)
	}

	return count, nil
}
