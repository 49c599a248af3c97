// Package main provides the entry point for the ucma CLI.
//
// ucma computes metrics for git refs by running a configurable
// extractor, analyzer and reporter for every ref concurrently.
//
// Usage:
//
//	ucma run HEAD v1.0 origin/main
//	ucma run --dry-run HEAD
//	ucma plugins
//
// See --help for all available options.
package main

import (
	// Built-in stages register themselves with the plugin catalog.
	_ "github.com/nao1215/ucma/internal/analyzer"
	_ "github.com/nao1215/ucma/internal/extractor"
	_ "github.com/nao1215/ucma/internal/reporter"
)

func main() {
	Execute()
}
