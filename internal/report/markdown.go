package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/basjacobs93/nhk-web-easy/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCoverage(md, summary)
	w.writeArticles(md, summary)
	w.writeFailures(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the run metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Enrichment Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + summary.RunID + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration().Round(time.Millisecond).String()},
			{"Articles", strconv.Itoa(summary.Fetched)},
			{"Enriched", strconv.Itoa(summary.Enriched)},
			{"Skipped", strconv.Itoa(summary.Skipped)},
			{"Failed", strconv.Itoa(summary.Failed)},
		},
	})
	md.PlainText("")

	switch {
	case summary.Failed > 0:
		md.Warningf("%d article(s) failed to process.", summary.Failed)
	case summary.Enriched == 0:
		md.Note("No articles were enriched in this run.")
	default:
		md.Tip(fmt.Sprintf("All %d article(s) processed successfully.", summary.Enriched))
	}
	md.PlainText("")
}

// writeCoverage writes the aggregate kanji coverage, with a pie chart when
// there is anything to chart.
func (w *MarkdownWriter) writeCoverage(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Kanji Coverage")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Total kanji", strconv.Itoa(summary.TotalKanji)},
			{"Known kanji", strconv.Itoa(summary.KnownKanji)},
			{"Unknown kanji", strconv.Itoa(summary.UnknownKanji)},
			{"**Coverage**", "**" + coveragePercent(summary) + "**"},
		},
	})
	md.PlainText("")

	if summary.TotalKanji > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Kanji Coverage"),
			piechart.WithShowData(true),
		)
		if summary.KnownKanji > 0 {
			chart.LabelAndIntValue("Known", uint64(summary.KnownKanji))
		}
		if summary.UnknownKanji > 0 {
			chart.LabelAndIntValue("Unknown", uint64(summary.UnknownKanji))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeArticles writes the per-article statistics table.
func (w *MarkdownWriter) writeArticles(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Articles")
	md.PlainText("")

	if len(summary.Articles) == 0 {
		md.PlainText("No articles were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Articles))
	for i, a := range summary.Articles {
		rows[i] = []string{
			truncateString(a.Title, 40),
			a.Slug,
			strconv.Itoa(a.TotalKanji),
			strconv.Itoa(a.KnownKanji),
			strconv.Itoa(a.UnknownKanji),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Slug", "Kanji", "Known", "Unknown"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the failure section when any article failed.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, summary *model.RunSummary) {
	if len(summary.Failures) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, len(summary.Failures))
	for i, f := range summary.Failures {
		rows[i] = []string{
			truncateString(f.URL, 60),
			truncateString(f.Error, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// coveragePercent formats known kanji as a percentage of all kanji,
// rounded half-up to one decimal. Plain %.1f rounds ties to even, which
// would turn 56.25 into "56.2%".
func coveragePercent(summary *model.RunSummary) string {
	if summary.TotalKanji == 0 {
		return "n/a"
	}
	pct := 100 * float64(summary.KnownKanji) / float64(summary.TotalKanji)
	return fmt.Sprintf("%.1f%%", math.Round(pct*10)/10)
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
