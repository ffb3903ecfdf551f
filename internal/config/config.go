package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/theassyrian/shaka-packager/internal/descriptor"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
)

//go:embed sample_config.toml
var sampleConfig string

// StreamDescriptor is the TOML-loadable shape of one [[streams]] entry;
// ToDescriptor converts it to internal/descriptor.StreamDescriptor with the
// language copied as written; the packager facade normalizes it during
// Initialize.
type StreamDescriptor struct {
	Input                 string `toml:"input"`
	StreamSelector        string `toml:"stream_selector"`
	Output                string `toml:"output"`
	SegmentTemplate       string `toml:"segment_template"`
	OutputFormat          string `toml:"output_format"`
	Bandwidth             uint64 `toml:"bandwidth"`
	Language              string `toml:"language"`
	TrickPlayFactor       uint   `toml:"trick_play_factor"`
	SkipEncryption        bool   `toml:"skip_encryption"`
	DrmLabel              string `toml:"drm_label"`
	HLSGroupID            string `toml:"hls_group_id"`
	HLSName               string `toml:"hls_name"`
	HLSPlaylistName       string `toml:"hls_playlist_name"`
	HLSIframePlaylistName string `toml:"hls_iframe_playlist_name"`
}

// ToDescriptor converts a TOML stream entry to the domain type the graph
// builders consume.
func (d StreamDescriptor) ToDescriptor() descriptor.StreamDescriptor {
	return descriptor.StreamDescriptor{
		Input:                 d.Input,
		StreamSelector:        d.StreamSelector,
		Output:                d.Output,
		SegmentTemplate:       d.SegmentTemplate,
		OutputFormat:          d.OutputFormat,
		Bandwidth:             d.Bandwidth,
		Language:              d.Language,
		TrickPlayFactor:       d.TrickPlayFactor,
		SkipEncryption:        d.SkipEncryption,
		DrmLabel:              d.DrmLabel,
		HLSGroupID:            d.HLSGroupID,
		HLSName:               d.HLSName,
		HLSPlaylistName:       d.HLSPlaylistName,
		HLSIframePlaylistName: d.HLSIframePlaylistName,
	}
}

// ChunkingParams is the TOML shape of packaging_params.chunking_params.
type ChunkingParams struct {
	SegmentDurationSeconds    float64 `toml:"segment_duration_seconds"`
	SubsegmentDurationSeconds float64 `toml:"subsegment_duration_seconds"`
	SegmentSapAligned         bool    `toml:"segment_sap_aligned"`
	SubsegmentSapAligned      bool    `toml:"subsegment_sap_aligned"`
}

// ToHandlerParams converts to internal/handler.ChunkingParams.
func (c ChunkingParams) ToHandlerParams() handler.ChunkingParams {
	return handler.ChunkingParams{
		SegmentDurationSeconds:    c.SegmentDurationSeconds,
		SubsegmentDurationSeconds: c.SubsegmentDurationSeconds,
		SegmentSapAligned:         c.SegmentSapAligned,
		SubsegmentSapAligned:      c.SubsegmentSapAligned,
	}
}

// EncryptionParams is the TOML shape of packaging_params.encryption_params.
// StreamLabelFunc has no TOML representation; callers embedding this
// package into a larger program that needs a custom label function set it
// on the converted keysource.EncryptionParams after conversion.
type EncryptionParams struct {
	Enabled             bool    `toml:"enabled"`
	ProtectionScheme    string  `toml:"protection_scheme"` // "cenc", "cbcs", "sample-aes"
	KeyProvider         string  `toml:"key_provider"`
	ClearLeadSeconds    float64 `toml:"clear_lead_seconds"`
	CryptoPeriodSeconds float64 `toml:"crypto_period_seconds"`
}

// ToKeysourceParams converts to internal/keysource.EncryptionParams. The
// caller is expected to install a StreamLabelFunc afterward if the default
// classification is not wanted.
func (e EncryptionParams) ToKeysourceParams() (keysource.EncryptionParams, error) {
	scheme, err := parseProtectionScheme(e.ProtectionScheme)
	if err != nil {
		return keysource.EncryptionParams{}, err
	}
	return keysource.EncryptionParams{
		ProtectionScheme:    scheme,
		KeyProvider:         e.KeyProvider,
		ClearLeadSeconds:    e.ClearLeadSeconds,
		CryptoPeriodSeconds: e.CryptoPeriodSeconds,
	}, nil
}

func parseProtectionScheme(name string) (keysource.ProtectionScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cenc":
		return keysource.ProtectionSchemeCenc, nil
	case "cbcs":
		return keysource.ProtectionSchemeCbcs, nil
	case "sample-aes", "apple-sample-aes", "cbcs-sample-aes":
		return keysource.ProtectionSchemeAppleSampleAes, nil
	default:
		return 0, pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "config", "parseProtectionScheme",
			fmt.Sprintf("unknown protection_scheme %q", name), nil)
	}
}

// DecryptionParams is the TOML shape of packaging_params.decryption_params.
type DecryptionParams struct {
	KeyProvider string `toml:"key_provider"`
}

// ToKeysourceParams converts to internal/keysource.DecryptionParams.
func (d DecryptionParams) ToKeysourceParams() keysource.DecryptionParams {
	return keysource.DecryptionParams{KeyProvider: d.KeyProvider}
}

// Mp4OutputParams is the TOML shape of packaging_params.mp4_output_params,
// consulted by the MP4 muxer collaborator (out of scope for this core, per
// spec.md §1) and carried here only so the document round-trips.
type Mp4OutputParams struct {
	GenerateSidx bool `toml:"generate_sidx"`
}

// MpdParams is the TOML shape of packaging_params.mpd_params.
type MpdParams struct {
	MpdOutput string `toml:"mpd_output"`
}

// HlsParams is the TOML shape of packaging_params.hls_params.
type HlsParams struct {
	MasterPlaylistOutput string `toml:"master_playlist_output"`
	PlaylistType         string `toml:"playlist_type"` // "VOD" or "LIVE"
}

// IsVOD reports whether PlaylistType selects VOD, the default when unset.
func (h HlsParams) IsVOD() bool {
	return strings.ToUpper(strings.TrimSpace(h.PlaylistType)) != "LIVE"
}

// AdCueGeneratorParams is the TOML shape of
// packaging_params.ad_cue_generator_params.
type AdCueGeneratorParams struct {
	CuePoints []float64 `toml:"cue_points"`
}

// TestParams is the TOML shape of packaging_params.test_params: test-only
// overrides, modeled on five82-spindle's testsupport constructors that
// accept an explicit override rather than reading global state.
type TestParams struct {
	DumpStreamInfo         bool   `toml:"dump_stream_info"`
	InjectedLibraryVersion string `toml:"injected_library_version"`
}

// PackagingParams is the TOML shape of the [packaging_params] table.
type PackagingParams struct {
	Chunking        ChunkingParams       `toml:"chunking_params"`
	Encryption      EncryptionParams     `toml:"encryption_params"`
	Decryption      DecryptionParams     `toml:"decryption_params"`
	Mp4Output       Mp4OutputParams      `toml:"mp4_output_params"`
	Mpd             MpdParams            `toml:"mpd_params"`
	Hls             HlsParams            `toml:"hls_params"`
	AdCueGenerator  AdCueGeneratorParams `toml:"ad_cue_generator_params"`
	TestParams      TestParams           `toml:"test_params"`
	TempDir         string               `toml:"temp_dir"`
	OutputMediaInfo bool                 `toml:"output_media_info"`
}

// Document is the full TOML document the CLI reads: packaging parameters
// plus the stream descriptor list, matching spec.md §3's PackagingParams
// and []StreamDescriptor as one file for CLI convenience.
type Document struct {
	Packaging PackagingParams    `toml:"packaging_params"`
	Streams   []StreamDescriptor `toml:"streams"`
}

// ToDescriptors converts every entry in Streams to the domain type.
func (doc *Document) ToDescriptors() []descriptor.StreamDescriptor {
	out := make([]descriptor.StreamDescriptor, len(doc.Streams))
	for i, s := range doc.Streams {
		out[i] = s.ToDescriptor()
	}
	return out
}

// Load locates, parses, normalizes, and validates a configuration file.
func Load(path string) (*Document, string, bool, error) {
	doc := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&doc); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := doc.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := doc.Validate(); err != nil {
		return nil, "", false, err
	}

	return &doc, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("packager.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return projectPath, false, nil
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other
// packages (the CLI uses it to resolve the `config init --path` target).
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
