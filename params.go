package packager

import (
	"context"
	"log/slog"

	"github.com/theassyrian/shaka-packager/internal/callbackfile"
	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/graph"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// StreamDescriptor is the facade's name for a packaging request over one
// track of one input, re-exported so callers never need to import
// internal/descriptor directly.
type StreamDescriptor = descriptor.StreamDescriptor

// ChunkingParams controls segment/subsegment duration and SAP alignment.
type ChunkingParams = handler.ChunkingParams

// EncryptionParams configures content encryption plus the key source that
// actually supplies keys; the protection scheme, key provider name, and
// label function have no meaning without a concrete KeySource behind them,
// so the two travel together here rather than splitting key material out
// into a separate lookup step.
type EncryptionParams struct {
	keysource.EncryptionParams
	KeySource keysource.KeySource
}

// DecryptionParams configures decryption of an already-encrypted input.
type DecryptionParams struct {
	keysource.DecryptionParams
	KeySource keysource.KeySource
}

// Mp4OutputParams carries MP4-specific muxing preferences. GenerateSidx is
// part of the data model (spec §3's mp4_output_params group) but has no
// consumer in this core: segment-index generation is box-level muxer
// detail, an external collaborator per §1's scope boundary. It is
// preserved here so a MuxWriteFunc collaborator that does care can read it
// off the params the facade was initialized with.
type Mp4OutputParams struct {
	GenerateSidx bool
}

// MpdParams configures DASH manifest output.
type MpdParams struct {
	MpdOutput string
}

// HlsPlaylistType distinguishes a playlist that is complete once written
// (VOD) from one still being appended to (LIVE).
type HlsPlaylistType int

const (
	HlsPlaylistTypeVOD HlsPlaylistType = iota
	HlsPlaylistTypeLive
)

// HlsParams configures HLS manifest output.
type HlsParams struct {
	MasterPlaylistOutput string
	PlaylistType         HlsPlaylistType
}

// IsVOD reports whether p describes an on-demand (non-live) playlist.
func (p HlsParams) IsVOD() bool {
	return p.PlaylistType == HlsPlaylistTypeVOD
}

// AdCueGeneratorParams lists the ad-break cue points every CueAlignmentHandler
// rendezvous on.
type AdCueGeneratorParams struct {
	CuePoints []float64
}

// BufferCallbackParams lets a caller redirect file I/O through in-process
// callbacks instead of the filesystem.
type BufferCallbackParams = callbackfile.BufferCallbackParams

// TestParams carries test-only overrides: invariant 4's dump_stream_info
// switch, and a library-version override so golden output doesn't churn on
// every build.
type TestParams struct {
	DumpStreamInfo         bool
	InjectedLibraryVersion string
}

// ManifestWriteFunc serializes accumulated representations and segments to
// output. It is the manifest-document-encoding collaborator named as out of
// scope in spec.md §1; Initialize installs defaultMpdWriter/defaultHlsWriter
// when the caller leaves these nil.
type ManifestWriteFunc func(output string, segments map[string][]manifest.Segment, reps map[string]manifest.Representation) error

// Collaborators bundles every external, caller-supplied implementation the
// graph may need. All fields are optional; a nil func disables the
// functionality that depends on it (e.g. no CopyFile means text passthrough
// descriptors fail validation-adjacent wiring rather than silently no-op).
type Collaborators struct {
	DemuxFuncFor            func(stream StreamDescriptor) handler.DemuxFunc
	MuxWriteFuncFor         func(format container.MediaContainer, stream StreamDescriptor) handler.MuxWriteFunc
	TextParseFuncFor        func(stream StreamDescriptor) handler.TextParseFunc
	TextTransformFuncFor    func(stream StreamDescriptor) handler.TextTransformFunc
	TextSegmentWriteFuncFor func(stream StreamDescriptor) handler.TextSegmentWriteFunc
	CopyFile                func(src, dst string) error
	DetermineTextFileCodec  func(input string) (string, error)
	WriteMediaInfo          func(path string, info TextMediaInfo) error
	MediaInfoSuffix         string

	WriteMpd ManifestWriteFunc
	WriteHls ManifestWriteFunc
}

// TextMediaInfo is the facade's re-export of the minimal manifest metadata
// the text passthrough routing case synthesizes.
type TextMediaInfo = graph.TextMediaInfo

// PackagingParams bundles every group from spec.md §3's PackagingParams
// data model, plus the ambient Logger/Warn hooks and Collaborators a caller
// wires in to get actual bytes read, written, and muxed.
type PackagingParams struct {
	Chunking       ChunkingParams
	Encryption     EncryptionParams
	Decryption     DecryptionParams
	Mp4Output      Mp4OutputParams
	Mpd            MpdParams
	Hls            HlsParams
	AdCueGenerator AdCueGeneratorParams
	BufferCallback BufferCallbackParams
	Test           TestParams

	TempDir         string
	OutputMediaInfo bool

	Collaborators Collaborators

	// Logger receives structured diagnostics for the run; a nil Logger
	// falls back to a no-op logger via internal/logging.
	Logger *slog.Logger

	// Context bounds Run(); a nil Context defaults to context.Background().
	Context context.Context
}
