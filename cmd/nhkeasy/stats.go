package main

import (
	"fmt"
	"math"
	"os"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
	"github.com/basjacobs93/nhk-web-easy/internal/storage"
	"github.com/spf13/cobra"
)

// Constants for coverage comparison direction.
const (
	coverageImproved  = "improved"
	coverageWorsened  = "worsened"
	coverageUnchanged = "unchanged"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [store-file] [store-file]",
		Short: "Show kanji statistics for processed articles",
		Long: `Stats aggregates the kanji statistics of a processed article store:
total, known, and unknown kanji counts plus the learned-kanji coverage.

With no arguments the configured processed store is used. With one
argument that store file is used instead. With two arguments the two
stores are compared, showing the coverage change between them; this is
useful for tracking progress across WaniKani syncs.

Examples:
  # Statistics for the configured store
  nhkeasy stats

  # Statistics for a specific store file
  nhkeasy stats data/processed_articles.json

  # Compare two snapshots
  nhkeasy stats old_processed.json data/processed_articles.json`,
		Args: cobra.MaximumNArgs(2),
		RunE: runStatsCmd,
	}

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	store := storage.NewStore(cfg.DataDir, logger)

	// Explicitly named stores must exist; only the configured default may
	// be absent (first run).
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("article store not found: %s", path)
		}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{store.Path(storage.ProcessedArticlesFile)}
	}

	totals := make([]storeTotals, 0, len(paths))
	for _, path := range paths {
		articles, err := loadArticleFile(path)
		if err != nil {
			return err
		}
		totals = append(totals, aggregateTotals(path, articles))
	}

	printTotals(cmd, totals[0])
	if len(totals) == 2 {
		fmt.Fprintln(cmd.OutOrStdout())
		printTotals(cmd, totals[1])
		fmt.Fprintln(cmd.OutOrStdout())
		printComparison(cmd, totals[0], totals[1])
	}

	return nil
}

// loadArticleFile reads one article store file by absolute or relative path.
func loadArticleFile(path string) ([]*model.Article, error) {
	// Reuse the store loader by treating the file's directory as the
	// store root.
	store := storage.NewStore("", nil)
	articles, err := store.LoadArticles(path)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// storeTotals aggregates kanji statistics across one article store.
type storeTotals struct {
	// path identifies the store the totals were read from.
	path string

	// articles counts the articles carrying statistics.
	articles int

	// totalKanji, knownKanji and unknownKanji sum the per-article counts.
	totalKanji   int
	knownKanji   int
	unknownKanji int

	// uniqueUnknown counts the distinct unlearned kanji across the store.
	uniqueUnknown int
}

// coverage returns the known-kanji share in percent, or NaN when the
// store holds no kanji.
func (t storeTotals) coverage() float64 {
	if t.totalKanji == 0 {
		return math.NaN()
	}
	return float64(t.knownKanji) / float64(t.totalKanji) * 100
}

// aggregateTotals folds the per-article statistics into store totals.
// Articles without statistics (not yet processed) are skipped.
func aggregateTotals(path string, articles []*model.Article) storeTotals {
	totals := storeTotals{path: path}
	unknown := make(map[string]struct{})

	for _, article := range articles {
		if article.Stats == nil {
			continue
		}
		totals.articles++
		totals.totalKanji += article.Stats.TotalKanji
		totals.knownKanji += article.Stats.KnownKanji
		totals.unknownKanji += article.Stats.UnknownKanji
		for _, kanji := range article.Stats.UniqueUnknownKanji {
			unknown[kanji] = struct{}{}
		}
	}

	totals.uniqueUnknown = len(unknown)
	return totals
}

// printTotals prints the statistics of one store.
func printTotals(cmd *cobra.Command, totals storeTotals) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "KANJI STATISTICS: %s\n", totals.path)
	fmt.Fprintf(out, "  Articles:       %d\n", totals.articles)
	fmt.Fprintf(out, "  Total kanji:    %d\n", totals.totalKanji)
	fmt.Fprintf(out, "  Known kanji:    %d\n", totals.knownKanji)
	fmt.Fprintf(out, "  Unknown kanji:  %d\n", totals.unknownKanji)
	fmt.Fprintf(out, "  Unique unknown: %d\n", totals.uniqueUnknown)
	if cov := totals.coverage(); math.IsNaN(cov) {
		fmt.Fprintf(out, "  Coverage:       n/a\n")
	} else {
		fmt.Fprintf(out, "  Coverage:       %.1f%%\n", cov)
	}
}

// printComparison prints the coverage change between two stores.
func printComparison(cmd *cobra.Command, before, after storeTotals) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "COVERAGE COMPARISON")
	delta, direction := coverageDelta(before, after)

	switch direction {
	case coverageUnchanged:
		fmt.Fprintln(out, "  Coverage is unchanged.")
	case coverageImproved:
		fmt.Fprintf(out, "  Coverage improved by %.1f points.\n", delta)
	case coverageWorsened:
		fmt.Fprintf(out, "  Coverage worsened by %.1f points.\n", -delta)
	}

	newKanji := after.knownKanji - before.knownKanji
	if newKanji != 0 {
		fmt.Fprintf(out, "  Known kanji count changed by %+d.\n", newKanji)
	}
}

// coverageDelta returns the coverage change in points and its direction.
// Stores without kanji compare as unchanged.
func coverageDelta(before, after storeTotals) (float64, string) {
	b, a := before.coverage(), after.coverage()
	if math.IsNaN(b) || math.IsNaN(a) {
		return 0, coverageUnchanged
	}

	delta := a - b
	switch {
	case delta > 0:
		return delta, coverageImproved
	case delta < 0:
		return delta, coverageWorsened
	default:
		return 0, coverageUnchanged
	}
}
