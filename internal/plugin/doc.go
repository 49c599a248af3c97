// Package plugin implements the capability registry: discovery of stage
// implementations and resolution of a short plugin name to one of them.
//
// Every pipeline stage is one of three capabilities (extractor, analyzer,
// reporter). A stage implementation is identified by a descriptor written as
// "location:entry", for example "markdown.reporter:New". Implementations
// register a typed factory for their descriptor from an init function, the same
// way database/sql drivers register themselves:
//
//	func init() {
//	    plugin.RegisterReporter("markdown.reporter", "New", New)
//	}
//
// A Registry is built once at startup from a Source (the process-wide
// DefaultCatalog, or a YAML listing file that selects and orders entries) and
// then answers Resolve calls. Resolve matches the requested name as a prefix of
// each descriptor's location and returns the first match in discovery order:
//
//	reg, err := plugin.New(plugin.DefaultCatalog)
//	impl, err := reg.Resolve(plugin.CapabilityReporter, "markdown")
//
// Resolution failures (ErrPluginNotFound, ErrMalformedEntry, ErrNotLinked) are
// configuration errors and should abort the run before any work item starts.
package plugin
