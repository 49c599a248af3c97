package report

import (
	"io"

	"github.com/nao1215/ucma/internal/model"
)

// Writer defines the interface for report output.
// Implementations render reports in various formats.
//
// Design decision: writers render to an io.Writer and know nothing about
// files or networks. The reporter stages decide where the bytes go (stdout,
// a file per ref, a webhook, a broker), so one writer serves them all.
type Writer interface {
	// Write outputs one item's report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)

	// WriteSummary outputs the per-item outcomes of a run.
	WriteSummary(outcomes []model.Outcome) (int, error)
}

// MultiWriter writes to multiple Writers in order.
//
// Design decision: this is a separate type rather than io.MultiWriter
// because Writer renders reports, not raw bytes, and each underlying
// Writer may render a different format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers and stops on the first error.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the run summary to all configured Writers.
func (m *MultiWriter) WriteSummary(outcomes []model.Outcome) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(outcomes)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
