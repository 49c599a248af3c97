package reporter

import (
	"context"

	"github.com/nao1215/ucma/internal/model"
	"github.com/nao1215/ucma/internal/plugin"
	"github.com/nao1215/ucma/internal/report"
)

func init() {
	plugin.RegisterReporter("console.reporter", "New", NewConsole)
	plugin.RegisterReporter("json.reporter", "New", NewJSON)
	plugin.RegisterReporter("markdown.reporter", "New", NewMarkdown)
}

// ConsoleConfig configures the console reporter.
type ConsoleConfig struct {
	// Output appends to this file instead of writing to stdout.
	Output string `yaml:"output"`

	// Verbose adds the digest and per-file churn.
	Verbose bool `yaml:"verbose"`

	// ShowEmpty shows sections with no data.
	ShowEmpty bool `yaml:"show_empty"`
}

// ConsoleReporter writes a human-readable report.
type ConsoleReporter struct {
	cfg    ConsoleConfig
	report *model.Report
}

// NewConsole constructs a console reporter.
func NewConsole(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	var c ConsoleConfig
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &ConsoleReporter{cfg: c, report: model.NewReport(item, meta, metrics)}, nil
}

// Generate writes the report.
func (r *ConsoleReporter) Generate(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := openAppendOutput(r.cfg.Output)
	if err != nil {
		return err
	}
	defer func() { err = closeOutput(out, err) }()

	w := report.NewSimpleWriter(out,
		report.WithVerbose(r.cfg.Verbose),
		report.WithShowEmpty(r.cfg.ShowEmpty),
	)
	_, err = w.Write(r.report)
	return err
}

// JSONConfig configures the JSON reporter.
type JSONConfig struct {
	// OutputDir writes <ref>.json into this directory instead of stdout.
	OutputDir string `yaml:"output_dir"`

	// Pretty indents the output. Defaults to true.
	Pretty bool `yaml:"pretty"`
}

// JSONReporter writes the report as a JSON document.
type JSONReporter struct {
	cfg    JSONConfig
	report *model.Report
}

// NewJSON constructs a JSON reporter.
func NewJSON(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	c := JSONConfig{Pretty: true}
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &JSONReporter{cfg: c, report: model.NewReport(item, meta, metrics)}, nil
}

// Generate writes the document.
func (r *JSONReporter) Generate(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := openDirOutput(r.cfg.OutputDir, r.report.Ref, ".json")
	if err != nil {
		return err
	}
	defer func() { err = closeOutput(out, err) }()

	var opts []report.JSONWriterOption
	if r.cfg.Pretty {
		opts = append(opts, report.WithPrettyPrint())
	}
	_, err = report.NewFullJSONWriter(out, opts...).Write(r.report)
	return err
}

// MarkdownConfig configures the Markdown reporter.
type MarkdownConfig struct {
	// OutputDir writes <ref>.md into this directory instead of stdout.
	OutputDir string `yaml:"output_dir"`
}

// MarkdownReporter writes the report as Markdown.
type MarkdownReporter struct {
	cfg    MarkdownConfig
	report *model.Report
}

// NewMarkdown constructs a Markdown reporter.
func NewMarkdown(cfg plugin.StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (plugin.Reporter, error) {
	var c MarkdownConfig
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return &MarkdownReporter{cfg: c, report: model.NewReport(item, meta, metrics)}, nil
}

// Generate writes the Markdown file.
func (r *MarkdownReporter) Generate(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := openDirOutput(r.cfg.OutputDir, r.report.Ref, ".md")
	if err != nil {
		return err
	}
	defer func() { err = closeOutput(out, err) }()

	_, err = report.NewMarkdownWriter(out).Write(r.report)
	return err
}
