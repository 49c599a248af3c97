package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/ucma/internal/pipeline"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "ucma"

	// DefaultExtractor is the extractor used when none is configured.
	DefaultExtractor = "git"

	// DefaultAnalyzer is the analyzer used when none is configured.
	DefaultAnalyzer = "tree"

	// DefaultReporter is the reporter used when none is configured.
	DefaultReporter = "console"

	// DefaultHistoryKeep is how many runs the history store retains.
	DefaultHistoryKeep = 100
)

// Config holds the settings for one ucma invocation.
type Config struct {
	// Extractor selects and configures the extractor stage.
	Extractor Section `yaml:"extractor"`

	// Analyzer selects and configures the analyzer stage.
	Analyzer Section `yaml:"analyzer"`

	// Reporter selects and configures the reporter stage.
	Reporter Section `yaml:"reporter"`

	// Concurrency caps the refs processed at once. Zero runs every ref
	// in its own goroutine.
	Concurrency int `yaml:"concurrency"`

	// PluginsFile is an optional listing file that replaces the built-in
	// discovery order.
	PluginsFile string `yaml:"plugins_file"`

	// History configures the run history store.
	History History `yaml:"history"`

	// MetricsFile writes Prometheus metrics in textfile format when set.
	MetricsFile string `yaml:"metrics_file"`

	// Path is the file the configuration was loaded from. Empty when the
	// defaults are used.
	Path string `yaml:"-"`
}

// History configures run recording.
type History struct {
	// Enabled records each run. Defaults to true.
	Enabled bool `yaml:"enabled"`

	// Dir holds the history database. Defaults to XDGDataDir.
	Dir string `yaml:"dir"`

	// Keep is the number of runs retained. Zero keeps every run.
	Keep int `yaml:"keep"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Extractor: Section{Plugin: DefaultExtractor},
		Analyzer:  Section{Plugin: DefaultAnalyzer},
		Reporter:  Section{Plugin: DefaultReporter},
		History: History{
			Enabled: true,
			Keep:    DefaultHistoryKeep,
		},
	}
}

// XDGDataDir returns the data directory for ucma ($XDG_DATA_HOME/ucma).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory for ucma ($XDG_CONFIG_HOME/ucma).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// HistoryDir returns the configured history directory or XDGDataDir.
func (c *Config) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return XDGDataDir()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for _, s := range []struct {
		name    string
		section Section
	}{
		{"extractor", c.Extractor},
		{"analyzer", c.Analyzer},
		{"reporter", c.Reporter},
	} {
		if s.section.Plugin == "" {
			return fmt.Errorf("%w: %s", ErrMissingPlugin, s.name)
		}
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.History.Keep < 0 {
		return ErrInvalidHistoryLimit
	}

	return nil
}

// Stages returns the pipeline stage specs.
func (c *Config) Stages() pipeline.Stages {
	return pipeline.Stages{
		Extractor: c.Extractor.spec(),
		Analyzer:  c.Analyzer.spec(),
		Reporter:  c.Reporter.spec(),
	}
}
