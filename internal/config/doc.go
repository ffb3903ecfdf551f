// Package config loads, normalizes, and validates the TOML document the
// CLI reads: packaging parameters plus the stream descriptor list.
//
// It supplies repository defaults, expands the temp_dir path (including
// tilde shortcuts), reads a TOML file via go-toml/v2, and converts the
// document into the concrete types the facade and graph builders consume
// (internal/handler.ChunkingParams, internal/keysource.EncryptionParams/
// DecryptionParams, internal/descriptor.StreamDescriptor) so the CLI layer
// never hand-rolls that translation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors before any handler is built.
package config
