// Package main hosts the packager CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a TOML packaging document, converts
// it to the facade's PackagingParams/StreamDescriptor pair, and drives one
// packager.Packager through Initialize/Run. Keep this package thin: new
// packaging behavior belongs in the root packager package or internal/,
// not here.
package main
