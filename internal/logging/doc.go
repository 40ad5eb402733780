// Package logging assembles the structured slog loggers used across vidmux.
//
// It centralizes level and output plumbing, picks console or JSON output
// based on config (falling back to a tty check), and exposes context-aware
// helpers so pipeline code can automatically tag log lines with request IDs
// and stage names. The package also provides a no-op logger for tests.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
