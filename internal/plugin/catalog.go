package plugin

import (
	"fmt"
	"sync"
)

// Source supplies the raw "location:entry" discovery entries for a capability,
// in discovery order.
type Source interface {
	Entries(c Capability) ([]string, error)
}

// Catalog is the static table of implementations linked into the binary.
// Registration order is discovery order.
type Catalog struct {
	mu     sync.RWMutex
	order  map[Capability][]Descriptor
	byDesc map[Descriptor]Implementation
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		order:  make(map[Capability][]Descriptor),
		byDesc: make(map[Descriptor]Implementation),
	}
}

// DefaultCatalog is the process-wide catalog that built-in stages register into.
var DefaultCatalog = NewCatalog()

// Register adds an implementation. It panics if the implementation is invalid
// or its descriptor is already registered.
func (c *Catalog) Register(impl Implementation) {
	if err := impl.validate(); err != nil {
		panic("plugin: Register " + err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.byDesc[impl.Descriptor]; dup {
		panic(fmt.Sprintf("plugin: Register called twice for %s %s", impl.Capability, impl.Descriptor))
	}
	c.byDesc[impl.Descriptor] = impl
	c.order[impl.Capability] = append(c.order[impl.Capability], impl.Descriptor)
}

// Entries implements Source.
func (c *Catalog) Entries(capability Capability) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	descs := c.order[capability]
	entries := make([]string, 0, len(descs))
	for _, d := range descs {
		entries = append(entries, d.String())
	}
	return entries, nil
}

// Lookup returns the implementation registered for the descriptor.
func (c *Catalog) Lookup(d Descriptor) (Implementation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	impl, ok := c.byDesc[d]
	return impl, ok
}

// RegisterExtractor registers an extractor factory in DefaultCatalog.
func RegisterExtractor(location, entry string, factory ExtractorFactory) {
	DefaultCatalog.Register(Implementation{
		Descriptor: Descriptor{Capability: CapabilityExtractor, Location: location, Entry: entry},
		Extractor:  factory,
	})
}

// RegisterAnalyzer registers an analyzer factory in DefaultCatalog.
func RegisterAnalyzer(location, entry string, factory AnalyzerFactory) {
	DefaultCatalog.Register(Implementation{
		Descriptor: Descriptor{Capability: CapabilityAnalyzer, Location: location, Entry: entry},
		Analyzer:   factory,
	})
}

// RegisterReporter registers a reporter factory in DefaultCatalog.
func RegisterReporter(location, entry string, factory ReporterFactory) {
	DefaultCatalog.Register(Implementation{
		Descriptor: Descriptor{Capability: CapabilityReporter, Location: location, Entry: entry},
		Reporter:   factory,
	})
}
