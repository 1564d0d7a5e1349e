package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose enables the per-article breakdown in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with the per-article breakdown.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCoverage(&sb, summary)
	if w.verbose {
		w.writeArticles(&sb, summary)
	}
	w.writeFailures(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run metadata.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       ENRICHMENT RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:    %s\n", summary.RunID)
	fmt.Fprintf(sb, "Started:   %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:  %s\n", summary.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Articles:  %d fetched, %d enriched, %d skipped, %d failed\n",
		summary.Fetched, summary.Enriched, summary.Skipped, summary.Failed)
	sb.WriteString("\n")
}

// writeCoverage writes the aggregate kanji coverage section.
func (w *SimpleWriter) writeCoverage(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("KANJI COVERAGE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  TOTAL:    %d\n", summary.TotalKanji)
	fmt.Fprintf(sb, "  KNOWN:    %d\n", summary.KnownKanji)
	fmt.Fprintf(sb, "  UNKNOWN:  %d\n", summary.UnknownKanji)
	fmt.Fprintf(sb, "  COVERAGE: %s\n", coveragePercent(summary))
	sb.WriteString("\n")
}

// writeArticles writes the per-article breakdown.
func (w *SimpleWriter) writeArticles(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Articles) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ARTICLES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Articles) == 0 {
		sb.WriteString("  No articles processed\n")
	}
	for _, a := range summary.Articles {
		fmt.Fprintf(sb, "  * %s\n", a.Title)
		fmt.Fprintf(sb, "    Kanji: %d total, %d known, %d unknown\n",
			a.TotalKanji, a.KnownKanji, a.UnknownKanji)
	}
	sb.WriteString("\n")
}

// writeFailures writes the failure section.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Failures) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Failures) == 0 {
		sb.WriteString("  No failures\n")
	}
	for _, f := range summary.Failures {
		fmt.Fprintf(sb, "  [!] %s\n", f.URL)
		fmt.Fprintf(sb, "      %s\n", f.Error)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
