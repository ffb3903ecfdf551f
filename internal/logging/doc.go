// Package logging assembles structured slog loggers used across the
// packaging core.
//
// It owns the configurable console/JSON handlers and centralizes level and
// output plumbing so graph-builder, job-manager, and facade code all emit
// log lines with the same shape. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the
// rest of the system.
package logging
