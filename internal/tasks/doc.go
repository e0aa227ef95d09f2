// Package tasks orchestrates long-running library operations with real-time progress reporting.
//
// # Core Operations
//
// The [Exporter] drives bulk playlist exports:
//   - Fetches each playlist and its full track listing
//   - Writes the export in the requested format via the formatter package
//   - Generates a manifest file summarizing the run
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [Exporter] depends on the narrow [PlaylistFetcher] interface rather than the
// full API client so tests can substitute canned playlist data.
package tasks
