// Package model defines the data structures that flow through the ucma pipeline.
//
// This package contains the following main types:
//   - Tree: The extracted snapshot of a git tree at one ref
//   - ItemMetadata: Commit information for a ref, fetched independently of the tree
//   - Metrics: The values an analyzer computes from a Tree
//   - Report: The document a reporter renders (ref, metadata and metrics together)
//   - Outcome: The per-ref result of running the pipeline
//
// Models live in their own package because the plugin registry, the pipeline,
// every stage implementation and the history store all exchange them.
//
// All types serialize to JSON for report output and history storage.
package model
