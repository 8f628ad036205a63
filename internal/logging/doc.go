// Package logging assembles structured slog loggers and formatting helpers used
// across PocketAria packages.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including rotation of the on-disk log through lumberjack), and
// exposes attribute helpers so store, exchange and permalink code emit data
// with the same field names. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
