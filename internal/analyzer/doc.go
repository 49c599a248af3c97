// Package analyzer provides the built-in analyzer stages.
//
//   - "tree.analyzer:New" counts files, directories and bytes, breaks the tree
//     down by language, lists the largest files and fingerprints the listing
//     with SHA3-256.
//   - "churn.analyzer:New" computes everything the tree analyzer does plus the
//     line churn of the commit patch. It requires an extractor configured to
//     capture the patch.
//
// Both register themselves in plugin.DefaultCatalog when the package is
// imported.
package analyzer
