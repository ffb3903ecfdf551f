package config

import (
	"fmt"
	"strings"
)

// normalize expands paths and fills in zero-value defaults the TOML
// decoder would otherwise leave blank when a table was present but a field
// was omitted. Descriptor-level normalization (language -> ISO-639-2,
// callback-file rewriting) is the facade's job per spec.md §4.7, not this
// package's: a config.Document is CLI input, not yet a validated
// PackagingParams.
func (doc *Document) normalize() error {
	if err := doc.normalizeTempDir(); err != nil {
		return err
	}
	doc.normalizeChunking()
	doc.normalizeEncryption()
	doc.normalizeHls()
	return nil
}

func (doc *Document) normalizeTempDir() error {
	if strings.TrimSpace(doc.Packaging.TempDir) == "" {
		doc.Packaging.TempDir = defaultTempDir
	}
	expanded, err := expandPath(doc.Packaging.TempDir)
	if err != nil {
		return fmt.Errorf("packaging_params.temp_dir: %w", err)
	}
	doc.Packaging.TempDir = expanded
	return nil
}

func (doc *Document) normalizeChunking() {
	c := &doc.Packaging.Chunking
	if c.SegmentDurationSeconds <= 0 {
		c.SegmentDurationSeconds = defaultSegmentDurationSeconds
	}
	if c.SubsegmentDurationSeconds <= 0 {
		c.SubsegmentDurationSeconds = defaultSubsegmentDurationSeconds
	}
}

func (doc *Document) normalizeEncryption() {
	e := &doc.Packaging.Encryption
	e.ProtectionScheme = strings.ToLower(strings.TrimSpace(e.ProtectionScheme))
	if e.ProtectionScheme == "" {
		e.ProtectionScheme = "cenc"
	}
}

func (doc *Document) normalizeHls() {
	h := &doc.Packaging.Hls
	h.PlaylistType = strings.ToUpper(strings.TrimSpace(h.PlaylistType))
	if h.PlaylistType == "" {
		h.PlaylistType = defaultHlsPlaylistType
	}
}
