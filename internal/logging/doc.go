// Package logging assembles structured slog loggers used across recast.
//
// It centralizes level and output plumbing for the console and JSON
// handlers and exposes small attr helpers so the rest of the code logs
// data with a consistent shape. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
