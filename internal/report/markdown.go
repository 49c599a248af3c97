package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/ucma/internal/model"
)

// maxChartSlices limits the languages shown in the pie chart; the rest are
// folded into "Other".
const maxChartSlices = 8

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	if m := report.Metrics; m != nil {
		w.writeTotals(md, m)
		w.writeLanguages(md, m)
		w.writeLargest(md, m)
		w.writeChurn(md, m)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the run outcomes as a table.
func (w *MarkdownWriter) WriteSummary(outcomes []model.Outcome) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run Summary")
	md.PlainText("")

	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		status := "✅ " + o.Status.String()
		if !o.Succeeded() {
			status = "❌ " + o.Status.String()
		}
		rows[i] = []string{
			"`" + o.Item + "`",
			status,
			stageTitle(o.Stage),
			truncateString(orDash(o.Error), 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Ref", "Status", "Stage", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	failed := model.CountFailed(outcomes)
	switch {
	case len(outcomes) > 0 && failed == len(outcomes):
		md.Cautionf("All %d refs failed.", failed)
	case failed > 0:
		md.Warningf("%d of %d refs failed.", failed, len(outcomes))
	default:
		md.Tip("All refs processed successfully.")
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the ref information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("Tree Metrics: " + report.Ref)
	md.PlainText("")

	rows := [][]string{
		{"Ref", "`" + report.Ref + "`"},
		{"Commit", "`" + orDash(report.Commit()) + "`"},
	}
	if meta := report.Metadata; meta != nil {
		rows = append(rows,
			[]string{"Author", meta.Author},
			[]string{"Subject", truncateString(meta.Subject, 72)},
		)
		if !meta.Date.IsZero() {
			rows = append(rows, []string{"Date", meta.Date.Format("2006-01-02 15:04:05 MST")})
		}
		if meta.Version != "" {
			rows = append(rows, []string{"Version", meta.Version})
		}
	}
	rows = append(rows, []string{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTotals writes the totals table.
func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, m *model.Metrics) {
	md.H2("Totals")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Analyzer", m.Analyzer},
			{"Files", formatCount(m.Files)},
			{"Directories", formatCount(m.Directories)},
			{"Total size", formatBytes(m.TotalBytes)},
			{"Average size", formatBytes(m.AverageFileSize())},
			{"Symlinks", formatCount(m.Symlinks)},
			{"Submodules", formatCount(m.Submodules)},
		},
	})
	md.PlainText("")

	if m.Digest != "" {
		md.Details("Tree digest (SHA3-256)", m.Digest)
		md.PlainText("")
	}
}

// writeLanguages writes the language table and pie chart.
func (w *MarkdownWriter) writeLanguages(md *markdown.Markdown, m *model.Metrics) {
	md.H2("Languages")
	md.PlainText("")

	if len(m.Languages) == 0 {
		md.Note("The tree contains no files.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(m.Languages))
	for i, l := range m.Languages {
		rows[i] = []string{l.Name, formatCount(l.Files), formatBytes(l.Bytes), formatPercent(l.Share)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Language", "Files", "Size", "Share"},
		Rows:   rows,
	})
	md.PlainText("")

	if m.TotalBytes > 0 {
		w.writePieChart(md, m.Languages)
	}
}

// writePieChart writes a mermaid pie chart of bytes per language.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, langs []model.LanguageStat) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Bytes by Language"),
		piechart.WithShowData(true),
	)

	var other int64
	for i, l := range langs {
		if i >= maxChartSlices {
			other += l.Bytes
			continue
		}
		if l.Bytes > 0 {
			chart.LabelAndIntValue(l.Name, uint64(l.Bytes))
		}
	}
	if other > 0 {
		chart.LabelAndIntValue("Other", uint64(other))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeLargest writes the largest files table.
func (w *MarkdownWriter) writeLargest(md *markdown.Markdown, m *model.Metrics) {
	if len(m.Largest) == 0 {
		return
	}
	md.H2("Largest Files")
	md.PlainText("")

	rows := make([][]string, len(m.Largest))
	for i, f := range m.Largest {
		rows[i] = []string{strconv.Itoa(i + 1), "`" + truncateString(f.Path, 80) + "`", formatBytes(f.Bytes)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Path", "Size"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeChurn writes the churn section when present.
func (w *MarkdownWriter) writeChurn(md *markdown.Markdown, m *model.Metrics) {
	if m.Churn == nil {
		return
	}
	c := m.Churn

	md.H2("Churn")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%s files changed, %s insertions(+), %s deletions(-)",
		formatCount(c.FilesChanged), formatCount(c.Insertions), formatCount(c.Deletions)))
	md.PlainText("")

	if len(c.Files) == 0 {
		return
	}
	rows := make([][]string, len(c.Files))
	for i, f := range c.Files {
		rows[i] = []string{"`" + truncateString(f.Path, 80) + "`", "+" + strconv.Itoa(f.Insertions), "-" + strconv.Itoa(f.Deletions)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Path", "Insertions", "Deletions"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by ucma*")
}
