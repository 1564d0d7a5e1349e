package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/basjacobs93/nhk-web-easy/internal/sitegen"
	"github.com/basjacobs93/nhk-web-easy/internal/storage"
	"github.com/basjacobs93/nhk-web-easy/internal/wanikani"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the static site from processed articles",
		Long: `Generate builds the static site from the processed articles: an index
page, one page per article, and the stylesheet and toggle script the
pages share. When a WaniKani level table is present in the data
directory it is exported alongside the pages for level-aware display.

The output directory is self-contained and can be served by any static
file host.

Examples:
  # Generate into the configured output directory
  nhkeasy generate

  # Generate into a different directory
  nhkeasy generate --output public`,
		RunE: runGenerateCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output directory for the generated site (default from config)")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	if dir, err := cmd.Flags().GetString("output"); err == nil && dir != "" {
		cfg.OutputDir = dir
	}

	store := storage.NewStore(cfg.DataDir, logger)
	articles, err := store.LoadArticles(storage.ProcessedArticlesFile)
	if err != nil {
		return err
	}

	if err := generateSite(cfg, logger, articles); err != nil {
		return err
	}

	fmt.Printf("Generated site with %d article(s) in %s\n", len(articles), cfg.OutputDir)
	return nil
}

// generateSite builds the static site from the processed articles.
func generateSite(cfg *config.Config, logger *slog.Logger, articles []*model.Article) error {
	opts := []sitegen.Option{
		sitegen.WithGeneratorLogger(logger),
	}
	if cfg.SiteTitle != "" {
		opts = append(opts, sitegen.WithSiteTitle(cfg.SiteTitle))
	}
	if cfg.SiteDescription != "" {
		opts = append(opts, sitegen.WithSiteDescription(cfg.SiteDescription))
	}

	// The level table is optional reference data: export it when present
	// so the site can color kanji by proficiency tier.
	if levelPath := cfg.LevelTablePath(); levelPath != "" {
		if _, err := os.Stat(levelPath); err == nil {
			opts = append(opts, sitegen.WithLevels(wanikani.LoadLevels(levelPath, logger)))
		}
	}

	generator, err := sitegen.NewGenerator(cfg.OutputDir, opts...)
	if err != nil {
		return fmt.Errorf("failed to create site generator: %w", err)
	}

	return generator.Generate(articles)
}
