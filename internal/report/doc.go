// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//
// Design decision: We resolve node aliases into the Report at build
// time rather than in each writer. Writers then work on plain data and
// never need access to the network graph, which keeps every format
// renderer trivially testable.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
