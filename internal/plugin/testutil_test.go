package plugin

import (
	"context"

	"github.com/nao1215/ucma/internal/model"
)

// stubReporter is a Reporter that does nothing. tag identifies which factory
// built it.
type stubReporter struct {
	tag string
}

func (s *stubReporter) Generate(context.Context) error {
	return nil
}

func reporterFactory(tag string) ReporterFactory {
	return func(StageConfig, *model.Metrics, string, *model.ItemMetadata) (Reporter, error) {
		return &stubReporter{tag: tag}, nil
	}
}

type stubExtractor struct{}

func (stubExtractor) Process(context.Context) (*model.Tree, error) {
	return model.NewTree("HEAD", "abc"), nil
}

func extractorFactory(StageConfig, string) (Extractor, error) {
	return stubExtractor{}, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Calculate(context.Context) (*model.Metrics, error) {
	return &model.Metrics{}, nil
}

func analyzerFactory(StageConfig, *model.Tree) (Analyzer, error) {
	return stubAnalyzer{}, nil
}

// sliceSource is a Source backed by fixed entry lists.
type sliceSource map[Capability][]string

func (s sliceSource) Entries(c Capability) ([]string, error) {
	return s[c], nil
}

// testCatalog registers one extractor, one analyzer and the given reporter
// locations (each with entry "New").
func testCatalog(reporters ...string) *Catalog {
	c := NewCatalog()
	c.Register(Implementation{
		Descriptor: Descriptor{Capability: CapabilityExtractor, Location: "git.extractor", Entry: "New"},
		Extractor:  extractorFactory,
	})
	c.Register(Implementation{
		Descriptor: Descriptor{Capability: CapabilityAnalyzer, Location: "tree.analyzer", Entry: "New"},
		Analyzer:   analyzerFactory,
	})
	for _, loc := range reporters {
		c.Register(Implementation{
			Descriptor: Descriptor{Capability: CapabilityReporter, Location: loc, Entry: "New"},
			Reporter:   reporterFactory(loc),
		})
	}
	return c
}

func reporterTag(t interface{ Fatalf(string, ...any) }, impl Implementation) string {
	r, err := impl.Reporter(nil, nil, "HEAD", nil)
	if err != nil {
		t.Fatalf("construct reporter: %v", err)
	}
	return r.(*stubReporter).tag
}
