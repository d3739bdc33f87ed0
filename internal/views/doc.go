// ABOUTME: Package views renders application state for terminal front-ends
// ABOUTME: Spinner, status message, article list and the interactive article form

// Package views turns app.State into terminal output.
//
// Renderers are pure functions of their inputs and return strings so the
// front-ends decide where output goes. Styling uses lipgloss; pass Plain()
// for uncoloured output (pipes, tests).
//
// Article text is treated as Markdown and flattened to plain text before
// display.
package views
