// Package tui holds the terminal chrome of the CLI: the banner and markdown
// rendering for trace summaries.
package tui
