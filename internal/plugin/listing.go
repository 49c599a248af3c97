package plugin

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ListingFile is a discovery source read from YAML:
//
//	plugins:
//	  reporter:
//	    - markdown.reporter:New
//	    - json.reporter:New
//
// Group keys are capability names, discovery group names
// ("ucma.reporter.plugin") or legacy stage names ("report_generator").
// Entries are returned in file order; the implementations themselves still
// come from the catalog.
type ListingFile struct {
	path    string
	entries map[Capability][]string
}

// LoadListingFile reads and parses a listing file.
func LoadListingFile(path string) (*ListingFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-configured
	if err != nil {
		return nil, fmt.Errorf("read plugin listing: %w", err)
	}
	l, err := ParseListing(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.path = path
	return l, nil
}

// ParseListing parses listing YAML.
func ParseListing(data []byte) (*ListingFile, error) {
	var doc struct {
		Plugins yaml.Node `yaml:"plugins"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plugin listing: %w", err)
	}

	l := &ListingFile{entries: make(map[Capability][]string)}
	if doc.Plugins.Kind == 0 {
		return l, nil
	}
	if doc.Plugins.Kind != yaml.MappingNode {
		return nil, errors.New("parse plugin listing: plugins must be a mapping of group to entries")
	}

	// Mapping nodes alternate key and value; walking them keeps file order.
	for i := 0; i+1 < len(doc.Plugins.Content); i += 2 {
		key, value := doc.Plugins.Content[i], doc.Plugins.Content[i+1]
		c, err := ParseCapability(key.Value)
		if err != nil {
			return nil, fmt.Errorf("parse plugin listing: line %d: %w", key.Line, err)
		}
		var list []string
		if err := value.Decode(&list); err != nil {
			return nil, fmt.Errorf("parse plugin listing: group %q: %w", key.Value, err)
		}
		l.entries[c] = append(l.entries[c], list...)
	}
	return l, nil
}

// Path returns the file the listing was loaded from, if any.
func (l *ListingFile) Path() string {
	return l.path
}

// Entries implements Source.
func (l *ListingFile) Entries(c Capability) ([]string, error) {
	out := make([]string, len(l.entries[c]))
	copy(out, l.entries[c])
	return out, nil
}
