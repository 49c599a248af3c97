package plugin

import (
	"context"

	"github.com/nao1215/ucma/internal/model"
)

// Extractor reads the tree snapshot for one work item.
type Extractor interface {
	// Process extracts the tree. It may block on I/O.
	Process(ctx context.Context) (*model.Tree, error)
}

// MetadataProvider is implemented by extractors that can describe the work
// item independently of tree extraction.
type MetadataProvider interface {
	// ItemMetadata fetches commit information for the work item.
	ItemMetadata(ctx context.Context) (*model.ItemMetadata, error)
}

// Analyzer computes metrics from an extracted tree.
type Analyzer interface {
	// Calculate computes the metrics. It may block.
	Calculate(ctx context.Context) (*model.Metrics, error)
}

// Reporter renders or delivers metrics.
type Reporter interface {
	// Generate produces the report side effect.
	Generate(ctx context.Context) error
}

// ExtractorFactory constructs an extractor for one work item.
type ExtractorFactory func(cfg StageConfig, item string) (Extractor, error)

// AnalyzerFactory constructs an analyzer for one extracted tree.
type AnalyzerFactory func(cfg StageConfig, tree *model.Tree) (Analyzer, error)

// ReporterFactory constructs a reporter for one item's metrics.
// meta is nil when the extractor does not provide metadata.
type ReporterFactory func(cfg StageConfig, metrics *model.Metrics, item string, meta *model.ItemMetadata) (Reporter, error)

// Implementation is a resolved descriptor paired with its factory.
// Exactly one factory field is set, matching Descriptor.Capability.
type Implementation struct {
	Descriptor

	Extractor ExtractorFactory
	Analyzer  AnalyzerFactory
	Reporter  ReporterFactory
}

// validate checks the tagged-variant invariant.
func (i Implementation) validate() error {
	set := 0
	var match bool
	if i.Extractor != nil {
		set++
		match = i.Capability == CapabilityExtractor
	}
	if i.Analyzer != nil {
		set++
		match = i.Capability == CapabilityAnalyzer
	}
	if i.Reporter != nil {
		set++
		match = i.Capability == CapabilityReporter
	}
	if set != 1 || !match {
		return &MalformedEntryError{
			Capability: i.Capability,
			Entry:      i.String(),
			Reason:     "implementation must carry exactly one factory matching its capability",
		}
	}
	if _, err := ParseDescriptor(i.Capability, i.String()); err != nil {
		return err
	}
	return nil
}
