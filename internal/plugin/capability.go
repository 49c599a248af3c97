package plugin

import (
	"fmt"
	"strings"
)

// Capability identifies one of the three fixed pipeline roles.
type Capability int

const (
	// CapabilityExtractor reads a tree snapshot for a work item.
	CapabilityExtractor Capability = iota

	// CapabilityAnalyzer computes metrics from an extracted tree.
	CapabilityAnalyzer

	// CapabilityReporter renders or delivers the metrics.
	CapabilityReporter
)

// Capabilities returns all capabilities in pipeline order.
func Capabilities() []Capability {
	return []Capability{CapabilityExtractor, CapabilityAnalyzer, CapabilityReporter}
}

// String returns the capability name used in config files and log output.
func (c Capability) String() string {
	switch c {
	case CapabilityExtractor:
		return "extractor"
	case CapabilityAnalyzer:
		return "analyzer"
	case CapabilityReporter:
		return "reporter"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Group returns the discovery group name for the capability.
func (c Capability) Group() string {
	return "ucma." + c.String() + ".plugin"
}

// IsValid reports whether c is one of the three known capabilities.
func (c Capability) IsValid() bool {
	return c >= CapabilityExtractor && c <= CapabilityReporter
}

// legacyGroups maps the stage names used by earlier releases to capabilities.
var legacyGroups = map[string]Capability{
	"git_processor":      CapabilityExtractor,
	"metrics_calculator": CapabilityAnalyzer,
	"report_generator":   CapabilityReporter,
}

// ParseCapability converts a name to a Capability. It accepts the capability
// names, their discovery group names and the legacy stage names.
func ParseCapability(s string) (Capability, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(strings.TrimPrefix(name, "ucma."), ".plugin")
	for _, c := range Capabilities() {
		if name == c.String() {
			return c, nil
		}
	}
	if c, ok := legacyGroups[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown capability %q", s)
}
