package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/theassyrian/shaka-packager/internal/config"
)

// DocumentOption allows callers to customize the generated test document.
type DocumentOption func(*documentBuilder)

type documentBuilder struct {
	t       testing.TB
	baseDir string
	doc     *config.Document
}

// NewDocument produces a config.Document seeded with a unique temp
// directory per test and applies any provided options. Callers typically
// follow up with WithStream to add descriptors.
func NewDocument(t testing.TB, opts ...DocumentOption) *config.Document {
	t.Helper()

	base := t.TempDir()
	doc := config.Default()
	doc.Packaging.TempDir = base

	builder := &documentBuilder{
		t:       t,
		baseDir: base,
		doc:     &doc,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.doc
}

// WithStream appends a TOML-shaped stream descriptor to the document.
func WithStream(stream config.StreamDescriptor) DocumentOption {
	return func(b *documentBuilder) {
		b.doc.Streams = append(b.doc.Streams, stream)
	}
}

// WithEncryption enables encryption on the document's packaging params.
func WithEncryption(keyProvider string) DocumentOption {
	return func(b *documentBuilder) {
		b.doc.Packaging.Encryption.Enabled = true
		b.doc.Packaging.Encryption.KeyProvider = keyProvider
	}
}

// WithCuePoints sets the ad cue generator's cue points.
func WithCuePoints(points ...float64) DocumentOption {
	return func(b *documentBuilder) {
		b.doc.Packaging.AdCueGenerator.CuePoints = points
	}
}

// BaseDir returns the root temp directory backing the generated document.
func BaseDir(doc *config.Document) string {
	return filepath.Clean(doc.Packaging.TempDir)
}
