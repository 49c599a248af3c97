package plugin

import "strings"

// Descriptor identifies one discoverable implementation of a capability.
// It is an immutable value.
type Descriptor struct {
	// Capability is the pipeline role the implementation fills.
	Capability Capability

	// Location is the symbolic location of the implementation
	// (e.g. "markdown.reporter"). Resolve matches names against its prefix.
	Location string

	// Entry is the constructor name within the location (e.g. "New").
	Entry string
}

// String returns the "location:entry" form.
func (d Descriptor) String() string {
	return d.Location + ":" + d.Entry
}

// Matches reports whether name selects this descriptor, i.e. whether the
// location starts with name. An empty name matches nothing.
func (d Descriptor) Matches(name string) bool {
	return name != "" && strings.HasPrefix(d.Location, name)
}

// ParseDescriptor parses a "location:entry" discovery entry for the capability.
// Surrounding whitespace is ignored.
func ParseDescriptor(c Capability, raw string) (Descriptor, error) {
	value := strings.TrimSpace(raw)
	location, entry, ok := strings.Cut(value, ":")
	switch {
	case !ok:
		return Descriptor{}, &MalformedEntryError{Capability: c, Entry: raw, Reason: "missing ':' separator"}
	case strings.Contains(entry, ":"):
		return Descriptor{}, &MalformedEntryError{Capability: c, Entry: raw, Reason: "more than one ':' separator"}
	case strings.TrimSpace(location) == "":
		return Descriptor{}, &MalformedEntryError{Capability: c, Entry: raw, Reason: "empty location"}
	case strings.TrimSpace(entry) == "":
		return Descriptor{}, &MalformedEntryError{Capability: c, Entry: raw, Reason: "empty entry"}
	}
	return Descriptor{
		Capability: c,
		Location:   strings.TrimSpace(location),
		Entry:      strings.TrimSpace(entry),
	}, nil
}
