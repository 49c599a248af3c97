package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/ucma/internal/plugin"
)

// Stage is a resolved implementation paired with its configuration.
type Stage struct {
	Impl   plugin.Implementation
	Config plugin.StageConfig
}

// Set is the resolved implementation for each of the three capabilities.
type Set struct {
	Extractor Stage
	Analyzer  Stage
	Reporter  Stage
}

// Steps returns the extract, analyze and report steps for the set.
func (s Set) Steps() []Step {
	return []Step{
		NewExtractStep(s.Extractor),
		NewAnalyzeStep(s.Analyzer),
		NewReportStep(s.Reporter),
	}
}

// ExtractStep constructs the extractor for the item, fetches item metadata
// when the extractor provides it, then extracts the tree.
type ExtractStep struct {
	stage Stage
}

// NewExtractStep creates the extract step.
func NewExtractStep(stage Stage) *ExtractStep {
	return &ExtractStep{stage: stage}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Stage returns CapabilityExtractor.
func (s *ExtractStep) Stage() plugin.Capability {
	return plugin.CapabilityExtractor
}

// Do runs the extractor.
func (s *ExtractStep) Do(ctx context.Context, state *State) error {
	factory := s.stage.Impl.Extractor
	if factory == nil {
		return errors.New("no extractor factory")
	}
	ex, err := factory(s.stage.Config, state.Item)
	if err != nil {
		return fmt.Errorf("construct %s: %w", s.stage.Impl.Descriptor, err)
	}

	if mp, ok := ex.(plugin.MetadataProvider); ok {
		meta, err := mp.ItemMetadata(ctx)
		if err != nil {
			return fmt.Errorf("item metadata: %w", err)
		}
		state.Metadata = meta
	}

	tree, err := ex.Process(ctx)
	if err != nil {
		return err
	}
	if tree == nil {
		return fmt.Errorf("%s returned no tree", s.stage.Impl.Descriptor)
	}
	state.Tree = tree
	return nil
}

// AnalyzeStep constructs the analyzer for the extracted tree and computes
// metrics.
type AnalyzeStep struct {
	stage Stage
}

// NewAnalyzeStep creates the analyze step.
func NewAnalyzeStep(stage Stage) *AnalyzeStep {
	return &AnalyzeStep{stage: stage}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Stage returns CapabilityAnalyzer.
func (s *AnalyzeStep) Stage() plugin.Capability {
	return plugin.CapabilityAnalyzer
}

// Do runs the analyzer.
func (s *AnalyzeStep) Do(ctx context.Context, state *State) error {
	factory := s.stage.Impl.Analyzer
	if factory == nil {
		return errors.New("no analyzer factory")
	}
	an, err := factory(s.stage.Config, state.Tree)
	if err != nil {
		return fmt.Errorf("construct %s: %w", s.stage.Impl.Descriptor, err)
	}

	metrics, err := an.Calculate(ctx)
	if err != nil {
		return err
	}
	if metrics == nil {
		return fmt.Errorf("%s returned no metrics", s.stage.Impl.Descriptor)
	}
	state.Metrics = metrics
	return nil
}

// ReportStep constructs the reporter for the item's metrics and generates the
// report.
type ReportStep struct {
	stage Stage
}

// NewReportStep creates the report step.
func NewReportStep(stage Stage) *ReportStep {
	return &ReportStep{stage: stage}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Stage returns CapabilityReporter.
func (s *ReportStep) Stage() plugin.Capability {
	return plugin.CapabilityReporter
}

// Do runs the reporter.
func (s *ReportStep) Do(ctx context.Context, state *State) error {
	factory := s.stage.Impl.Reporter
	if factory == nil {
		return errors.New("no reporter factory")
	}
	rep, err := factory(s.stage.Config, state.Metrics, state.Item, state.Metadata)
	if err != nil {
		return fmt.Errorf("construct %s: %w", s.stage.Impl.Descriptor, err)
	}
	return rep.Generate(ctx)
}
