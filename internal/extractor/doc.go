// Package extractor provides the built-in extractor stage.
//
// The git extractor ("git.extractor:New") reads a ref from a local
// repository with the git command line tool. It lists the full recursive tree,
// optionally captures the commit patch, and provides commit metadata.
// It registers itself in plugin.DefaultCatalog when the package is imported.
package extractor
