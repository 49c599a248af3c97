package plugin

import "fmt"

// Registry holds the discovered descriptors for every capability.
// It is read-only after New returns and safe for concurrent use.
type Registry struct {
	catalog     *Catalog
	descriptors map[Capability][]Descriptor
}

// Option configures a Registry.
type Option func(*Registry)

// WithCatalog sets the catalog used to link resolved descriptors to their
// factories. Defaults to DefaultCatalog.
func WithCatalog(c *Catalog) Option {
	return func(r *Registry) {
		r.catalog = c
	}
}

// Discover reads the source once for the capability and parses every entry.
func Discover(c Capability, src Source) ([]Descriptor, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("discover: unknown capability %d", int(c))
	}
	entries, err := src.Entries(c)
	if err != nil {
		return nil, fmt.Errorf("discover %s plugins: %w", c, err)
	}

	descs := make([]Descriptor, 0, len(entries))
	for _, raw := range entries {
		d, err := ParseDescriptor(c, raw)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// New discovers descriptors for all capabilities from the source.
func New(src Source, opts ...Option) (*Registry, error) {
	r := &Registry{
		catalog:     DefaultCatalog,
		descriptors: make(map[Capability][]Descriptor, 3),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, c := range Capabilities() {
		descs, err := Discover(c, src)
		if err != nil {
			return nil, err
		}
		r.descriptors[c] = descs
	}
	return r, nil
}

// Resolve returns the first descriptor of the capability, in discovery order,
// whose location starts with name, linked to its factory.
func (r *Registry) Resolve(c Capability, name string) (Implementation, error) {
	for _, d := range r.descriptors[c] {
		if !d.Matches(name) {
			continue
		}
		impl, ok := r.catalog.Lookup(d)
		if !ok {
			return Implementation{}, fmt.Errorf("%s plugin %q resolved to %s: %w", c, name, d, ErrNotLinked)
		}
		return impl, nil
	}
	return Implementation{}, &NotFoundError{Capability: c, Name: name}
}

// Descriptors returns a copy of the discovered descriptors for the capability.
func (r *Registry) Descriptors(c Capability) []Descriptor {
	out := make([]Descriptor, len(r.descriptors[c]))
	copy(out, r.descriptors[c])
	return out
}
