package graph

import (
	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/manifest"
	"github.com/theassyrian/shaka-packager/internal/syncpoint"
)

// JobRegistrar is the subset of the job manager the builders need: register
// a named root handler. Defined here (rather than importing
// internal/jobmanager) so the builder and the job manager can be developed
// and tested independently.
type JobRegistrar interface {
	Add(name string, root handler.OriginHandler)
}

// TextMediaInfo is the minimal manifest metadata the text passthrough case
// (§4.5 "WebVTT -> WebVTT file passthrough") synthesizes for a copied text
// file, in place of building the full MediaInfo protobuf message the
// original source constructs; the manifest writer is an external
// collaborator regardless of representation.
type TextMediaInfo struct {
	Codec         string
	Language      string
	MediaFileName string
	Bandwidth     uint64
}

// DefaultTextBandwidth is used for a text descriptor with no explicit
// bandwidth, matching kDefaultTextBandwidth in the original source: text
// files are small and single-file, so ranged requests don't apply and any
// reasonable placeholder works.
const DefaultTextBandwidth = 256

// Collaborators bundles every external dependency the graph builders push
// work through without doing themselves: demuxing, muxer writing, text
// parsing/transforming, file copy, and codec sniffing. A nil func is
// simply never called (so a caller exercising only the A/V builder need
// not supply the text-only collaborators), with one exception: the text
// passthrough case fails with ErrInvalidArgument when CopyFile is nil.
type Collaborators struct {
	// DemuxFuncFor returns the DemuxFunc a Demuxer for stream should drive.
	DemuxFuncFor func(stream descriptor.StreamDescriptor) handler.DemuxFunc

	// MuxWriteFuncFor returns the MuxWriteFunc a Muxer for stream, in the
	// given output format, should drive.
	MuxWriteFuncFor func(format container.MediaContainer, stream descriptor.StreamDescriptor) handler.MuxWriteFunc

	// TextParseFuncFor returns the TextParseFunc a WebVttParser reading
	// stream.Input should drive.
	TextParseFuncFor func(stream descriptor.StreamDescriptor) handler.TextParseFunc

	// TextTransformFuncFor returns the TextTransformFunc a WebVttToMp4Handler
	// should apply to each cue sample.
	TextTransformFuncFor func(stream descriptor.StreamDescriptor) handler.TextTransformFunc

	// TextSegmentWriteFuncFor returns the TextSegmentWriteFunc a
	// WebVttTextOutputHandler should drive.
	TextSegmentWriteFuncFor func(stream descriptor.StreamDescriptor) handler.TextSegmentWriteFunc

	// CopyFile copies the file at src to dst, used by the text passthrough
	// routing case.
	CopyFile func(src, dst string) error

	// DetermineTextFileCodec sniffs input's file head to classify it as
	// "wvtt" or "ttml", matching DetermineTextFileCodec in the original
	// source.
	DetermineTextFileCodec func(input string) (string, error)

	// NotifyTextContainer, if non-nil, is called for the text passthrough
	// case in place of a full MpdNotifier, since a copied text file has no
	// muxer to own a manifest.Listener.
	NotifyTextContainer func(info TextMediaInfo) error

	// WriteMediaInfo dumps info to path when output_media_info is set.
	WriteMediaInfo func(path string, info TextMediaInfo) error

	// EncryptionKeySource, when non-nil, enables encryption per §4.6.
	EncryptionKeySource keysource.KeySource

	// EncryptionParams is the caller's base configuration, cloned per
	// stream by newEncryptionHandler.
	EncryptionParams keysource.EncryptionParams

	// DecryptionKeySource, when non-nil, is installed on every constructed
	// Demuxer to decrypt an already-encrypted input.
	DecryptionKeySource keysource.KeySource

	// ListenerFactory builds each stream's manifest.Listener.
	ListenerFactory *manifest.ListenerFactory

	// SyncPoints, when non-nil, causes a CueAlignmentHandler to be inserted
	// in every chain, all sharing this queue.
	SyncPoints *syncpoint.Queue

	// OutputMediaInfo mirrors PackagingParams.output_media_info, consulted
	// by the text passthrough case.
	OutputMediaInfo bool

	// MediaInfoSuffix is appended to a descriptor's output path to form its
	// dumped media-info sidecar path.
	MediaInfoSuffix string
}

func (c *Collaborators) muxWriteFunc(format container.MediaContainer, stream descriptor.StreamDescriptor) handler.MuxWriteFunc {
	if c.MuxWriteFuncFor == nil {
		return nil
	}
	return c.MuxWriteFuncFor(format, stream)
}

func (c *Collaborators) demuxFunc(stream descriptor.StreamDescriptor) handler.DemuxFunc {
	if c.DemuxFuncFor == nil {
		return nil
	}
	return c.DemuxFuncFor(stream)
}
