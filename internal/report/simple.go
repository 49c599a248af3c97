package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/ucma/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no data are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
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

// WithVerbose enables verbose output with additional details.
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

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if report.Metrics != nil {
		w.writeTotals(&sb, report.Metrics)
		w.writeLanguages(&sb, report.Metrics)
		w.writeLargest(&sb, report.Metrics)
		w.writeChurn(&sb, report.Metrics)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteSummary outputs one line per failed item followed by a totals line.
// Failures use the form "Ref <ref> failed at <stage>: <error>".
func (w *SimpleWriter) WriteSummary(outcomes []model.Outcome) (int, error) {
	var sb strings.Builder

	for _, o := range outcomes {
		if o.Succeeded() {
			if w.verbose {
				sb.WriteString(fmt.Sprintf("Ref %s succeeded in %s\n", o.Item, o.Duration.Round(time.Millisecond)))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("Ref %s failed at %s: %s\n", o.Item, o.Stage, o.Error))
	}

	failed := model.CountFailed(outcomes)
	sb.WriteString(fmt.Sprintf("%s refs processed, %s succeeded, %s failed\n",
		formatCount(len(outcomes)), formatCount(len(outcomes)-failed), formatCount(failed)))

	return io.WriteString(w.output, sb.String())
}

// writeSection writes a section title between separator lines.
func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with ref and commit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        TREE METRICS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Ref:        %s\n", report.Ref))
	sb.WriteString(fmt.Sprintf("Commit:     %s\n", orDash(report.Commit())))

	if meta := report.Metadata; meta != nil {
		sb.WriteString(fmt.Sprintf("Author:     %s <%s>\n", meta.Author, meta.AuthorEmail))
		if !meta.Date.IsZero() {
			sb.WriteString(fmt.Sprintf("Date:       %s\n", meta.Date.Format("2006-01-02 15:04:05 MST")))
		}
		sb.WriteString(fmt.Sprintf("Subject:    %s\n", meta.Subject))
		if meta.Version != "" {
			sb.WriteString(fmt.Sprintf("Version:    %s\n", meta.Version))
		}
	}
	if report.Metrics != nil {
		sb.WriteString(fmt.Sprintf("Analyzer:   %s\n", report.Metrics.Analyzer))
	}
	sb.WriteString("\n")
}

// writeTotals writes the file, directory and size totals.
func (w *SimpleWriter) writeTotals(sb *strings.Builder, m *model.Metrics) {
	w.writeSection(sb, "TOTALS")

	sb.WriteString(fmt.Sprintf("  Files:        %s\n", formatCount(m.Files)))
	sb.WriteString(fmt.Sprintf("  Directories:  %s\n", formatCount(m.Directories)))
	sb.WriteString(fmt.Sprintf("  Total size:   %s\n", formatBytes(m.TotalBytes)))
	sb.WriteString(fmt.Sprintf("  Average size: %s\n", formatBytes(m.AverageFileSize())))
	if m.Symlinks > 0 || w.showEmpty {
		sb.WriteString(fmt.Sprintf("  Symlinks:     %s\n", formatCount(m.Symlinks)))
	}
	if m.Submodules > 0 || w.showEmpty {
		sb.WriteString(fmt.Sprintf("  Submodules:   %s\n", formatCount(m.Submodules)))
	}
	if w.verbose && m.Digest != "" {
		sb.WriteString(fmt.Sprintf("  Digest:       %s\n", m.Digest))
	}
	sb.WriteString("\n")
}

// writeLanguages writes the per-language breakdown.
func (w *SimpleWriter) writeLanguages(sb *strings.Builder, m *model.Metrics) {
	if len(m.Languages) == 0 && !w.showEmpty {
		return
	}
	w.writeSection(sb, "LANGUAGES")

	if len(m.Languages) == 0 {
		sb.WriteString("  No files\n\n")
		return
	}
	for _, l := range m.Languages {
		sb.WriteString(fmt.Sprintf("  %-16s %8s files %12s %7s\n",
			l.Name, formatCount(l.Files), formatBytes(l.Bytes), formatPercent(l.Share)))
	}
	sb.WriteString("\n")
}

// writeLargest writes the largest files.
func (w *SimpleWriter) writeLargest(sb *strings.Builder, m *model.Metrics) {
	if len(m.Largest) == 0 && !w.showEmpty {
		return
	}
	w.writeSection(sb, "LARGEST FILES")

	if len(m.Largest) == 0 {
		sb.WriteString("  No files\n\n")
		return
	}
	for _, f := range m.Largest {
		sb.WriteString(fmt.Sprintf("  %12s  %s\n", formatBytes(f.Bytes), f.Path))
	}
	sb.WriteString("\n")
}

// writeChurn writes the commit churn when the analyzer computed it.
func (w *SimpleWriter) writeChurn(sb *strings.Builder, m *model.Metrics) {
	if m.Churn == nil {
		return
	}
	w.writeSection(sb, "CHURN")

	c := m.Churn
	sb.WriteString(fmt.Sprintf("  %s files changed, %s insertions(+), %s deletions(-)\n",
		formatCount(c.FilesChanged), formatCount(c.Insertions), formatCount(c.Deletions)))

	if w.verbose {
		for _, f := range c.Files {
			sb.WriteString(fmt.Sprintf("    +%-6d -%-6d %s\n", f.Insertions, f.Deletions, f.Path))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by ucma\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
