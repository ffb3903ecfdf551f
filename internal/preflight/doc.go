// Package preflight provides readiness checks for the filesystem paths a
// packaging run depends on, run once by the facade before any handler is
// constructed so a doomed run fails with a clear message instead of a
// mid-graph file error.
package preflight
