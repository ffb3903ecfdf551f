// Package keysource defines the KeySource collaborator interface consumed
// by the encryption handler, the EncryptionParams the graph builder clones
// per stream, and the default stream-label classification function.
package keysource

import "context"

// StreamType distinguishes an audio track from a video track for the
// purposes of stream-label classification.
type StreamType int

const (
	Audio StreamType = iota
	Video
)

// ProtectionScheme identifies the content-protection scheme a stream is
// encrypted under.
type ProtectionScheme int

const (
	ProtectionSchemeCenc ProtectionScheme = iota
	ProtectionSchemeCbcs
	ProtectionSchemeAppleSampleAes
)

// EncryptedStreamAttributes carries the information the default label
// function needs to classify a stream, recovered from
// Packager::DefaultStreamLabelFunction in the original source.
type EncryptedStreamAttributes struct {
	StreamType StreamType
	Width      int
	Height     int
}

// StreamLabelFunc maps a stream's attributes to a DRM label string, the Go
// equivalent of EncryptionParams::stream_label_func.
type StreamLabelFunc func(EncryptedStreamAttributes) string

// EncryptionParams configures the EncryptionHandler the graph builder may
// insert into a chain. The graph builder clones this per stream (see
// internal/graph) so per-stream overrides never mutate the caller's copy.
type EncryptionParams struct {
	ProtectionScheme ProtectionScheme
	KeyProvider      string
	StreamLabelFunc  StreamLabelFunc
	ClearLeadSeconds float64
	CryptoPeriodSeconds float64
}

// DecryptionParams configures decryption of an already-encrypted input,
// consumed when constructing a Demuxer.
type DecryptionParams struct {
	KeyProvider string
}

// KeyProviderNone is the sentinel "no key provider configured" value; its
// presence on DecryptionParams.KeyProvider means no decryption key source
// should be created.
const KeyProviderNone = ""

// KeySource supplies content keys to an EncryptionHandler or a decrypting
// Demuxer. Implementations must be safe for concurrent GetKey calls, since
// every job-root goroutine may call through the same shared instance.
type KeySource interface {
	GetKey(ctx context.Context, label string) (Key, error)
}

// Key is the content key and initialization vector for one DRM label.
type Key struct {
	ID  []byte
	Key []byte
	IV  []byte
}

// Default pixel-area thresholds used by DefaultStreamLabel, recovered from
// CreateEncryptionHandler in the original source.
const (
	DefaultMaxSDPixels   = 768 * 576
	DefaultMaxHDPixels   = 1920 * 1080
	DefaultMaxUHD1Pixels = 4096 * 2160
)

// DefaultStreamLabel classifies a stream into AUDIO/SD/HD/UHD1/UHD2 by type
// and pixel count, matching Packager::DefaultStreamLabelFunction.
func DefaultStreamLabel(maxSD, maxHD, maxUHD1 int, attrs EncryptedStreamAttributes) string {
	if attrs.StreamType == Audio {
		return "AUDIO"
	}
	pixels := attrs.Width * attrs.Height
	switch {
	case pixels <= maxSD:
		return "SD"
	case pixels <= maxHD:
		return "HD"
	case pixels <= maxUHD1:
		return "UHD1"
	default:
		return "UHD2"
	}
}

// NewDefaultStreamLabelFunc returns a StreamLabelFunc bound to the given
// thresholds, for installing as EncryptionParams.StreamLabelFunc when the
// caller supplied none.
func NewDefaultStreamLabelFunc(maxSD, maxHD, maxUHD1 int) StreamLabelFunc {
	return func(attrs EncryptedStreamAttributes) string {
		return DefaultStreamLabel(maxSD, maxHD, maxUHD1, attrs)
	}
}

// ConstantLabelFunc returns a StreamLabelFunc that ignores its argument and
// always returns label, used when a descriptor sets an explicit drm_label.
func ConstantLabelFunc(label string) StreamLabelFunc {
	return func(EncryptedStreamAttributes) string {
		return label
	}
}
