// Package report renders tree metrics reports and run summaries.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables and a mermaid language chart
//
// Report data structures live in the model package; this package only
// formats them. Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
package report
