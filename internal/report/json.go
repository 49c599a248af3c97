package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/ucma/internal/model"
)

// SchemaVersion is the version of the JSON document layout written by
// FullJSONWriter. Consumers of webhook, AMQP and Redis payloads key on it.
const SchemaVersion = 1

// JSONWriter outputs reports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs the outcomes as a JSON array.
func (w *JSONWriter) WriteSummary(outcomes []model.Outcome) (int, error) {
	if outcomes == nil {
		outcomes = []model.Outcome{}
	}
	return w.writeJSON(outcomes)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output and line-oriented consumers.
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONDocument wraps a report with the document schema version.
type JSONDocument struct {
	// Schema is the document layout version.
	Schema int `json:"schema"`

	// Generator names the producing tool.
	Generator string `json:"generator"`

	// Report is the item report.
	Report *model.Report `json:"report"`
}

// NewJSONDocument wraps a report.
func NewJSONDocument(report *model.Report) *JSONDocument {
	return &JSONDocument{
		Schema:    SchemaVersion,
		Generator: "ucma",
		Report:    report,
	}
}

// FullJSONWriter outputs reports wrapped in a JSONDocument.
type FullJSONWriter struct {
	*JSONWriter
}

// NewFullJSONWriter creates a writer for wrapped documents.
func NewFullJSONWriter(output io.Writer, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
	}
}

// Write outputs the report wrapped with the schema version.
func (w *FullJSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(NewJSONDocument(report))
}

// MarshalDocument returns the compact wrapped JSON encoding of a report.
// Network reporters send this as their payload.
func MarshalDocument(report *model.Report) ([]byte, error) {
	return json.Marshal(NewJSONDocument(report))
}
