// Package packager is the orchestration core's public facade: it accepts
// packaging parameters and a stream descriptor list, validates them,
// compiles them into a wired handler graph, and runs that graph to
// completion.
//
// A Packager moves through the states Uninitialized -> Initialized ->
// Running -> Completed, with Cancelled reachable from Initialized or
// Running. Initialize does all of the compiler work (validation, format
// inference, graph construction); Run only drives the already-built graph.
//
// Callers supply the actual byte-level work — demuxing, muxing, text
// parsing, key material — via PackagingParams.Collaborators; this package
// owns wiring and lifecycle, not codec or crypto internals.
package packager
