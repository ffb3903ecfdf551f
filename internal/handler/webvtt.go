package handler

import (
	"context"

	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// TextParseFunc is the external collaborator that actually parses a text
// file's cues (WebVTT or TTML) and emits one Sample per cue. As with
// DemuxFunc, the core never parses cue syntax itself.
type TextParseFunc func(ctx context.Context, input string, emit func(Sample) error) error

// WebVttParser is a job root for the text pipeline: it pulls cues from an
// input WebVTT file and pushes them downstream.
type WebVttParser struct {
	Output

	input string
	parse TextParseFunc
}

// NewWebVttParser creates a parser job root for input.
func NewWebVttParser(input string, parse TextParseFunc) *WebVttParser {
	return &WebVttParser{input: input, parse: parse}
}

// Run drives parse to completion, then flushes downstream successors.
func (p *WebVttParser) Run(ctx context.Context) error {
	emit := func(sample Sample) error { return p.Output.Emit(ctx, sample) }
	if p.parse != nil {
		if err := p.parse(ctx, p.input, emit); err != nil {
			return err
		}
	}
	return p.Output.Flush(ctx)
}

// Cancel propagates cancellation downstream.
func (p *WebVttParser) Cancel() { p.Output.Cancel() }

// TextPadder is constructed with zero duration (stream duration is
// unknown up front per spec.md §4.5) and passes cues through unchanged; a
// future collaborator that learns the true stream duration could extend
// it with a trailing padding cue, but that is not this core's concern.
type TextPadder struct {
	Input
	Output

	DurationSeconds float64
}

// NewTextPadder creates a padder with the given duration, 0 per §4.5.
func NewTextPadder(durationSeconds float64) *TextPadder {
	return &TextPadder{DurationSeconds: durationSeconds}
}

// AcceptSample forwards sample downstream unchanged.
func (p *TextPadder) AcceptSample(ctx context.Context, sample Sample) error {
	return p.Output.Emit(ctx, sample)
}

// Flush forwards to bound successors.
func (p *TextPadder) Flush(ctx context.Context) error { return p.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (p *TextPadder) Cancel() { p.Output.Cancel() }

// TextTransformFunc is the external collaborator that wraps a parsed cue
// into an MP4-embedded WebVTT sample.
type TextTransformFunc func(ctx context.Context, sample Sample) (Sample, error)

// WebVttToMp4Handler wraps WebVTT cue samples into MP4 sample boxes,
// forwarding to a Muxer that writes a MOV/MP4 container.
type WebVttToMp4Handler struct {
	Input
	Output

	transform TextTransformFunc
}

// NewWebVttToMp4Handler creates a handler that applies transform to each
// incoming cue sample before forwarding it.
func NewWebVttToMp4Handler(transform TextTransformFunc) *WebVttToMp4Handler {
	return &WebVttToMp4Handler{transform: transform}
}

// AcceptSample applies transform then forwards the result downstream.
func (h *WebVttToMp4Handler) AcceptSample(ctx context.Context, sample Sample) error {
	out := sample
	if h.transform != nil {
		transformed, err := h.transform(ctx, sample)
		if err != nil {
			return err
		}
		out = transformed
	}
	return h.Output.Emit(ctx, out)
}

// Flush forwards to bound successors.
func (h *WebVttToMp4Handler) Flush(ctx context.Context) error { return h.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (h *WebVttToMp4Handler) Cancel() { h.Output.Cancel() }

// TextSegmentWriteFunc is the external collaborator that writes a cue
// sample to the current segment's text file.
type TextSegmentWriteFunc func(ctx context.Context, sample Sample) error

// WebVttTextOutputHandler is the terminal handler for the "Segmented Text
// Job" routing (§4.5): it writes each incoming cue to per-segment WebVTT
// text files and notifies the HLS listener of new segments, mirroring what
// Muxer does for binary containers.
type WebVttTextOutputHandler struct {
	Input

	write    TextSegmentWriteFunc
	listener *manifest.Listener

	wroteContainer bool
	segmentStart   int64
}

// NewWebVttTextOutputHandler creates the terminal text-output handler.
func NewWebVttTextOutputHandler(write TextSegmentWriteFunc, listener *manifest.Listener) *WebVttTextOutputHandler {
	return &WebVttTextOutputHandler{write: write, listener: listener}
}

// AcceptSample writes sample via write, notifying the listener of new
// container/segment boundaries the same way Muxer does.
func (h *WebVttTextOutputHandler) AcceptSample(ctx context.Context, sample Sample) error {
	if h.write != nil {
		if err := h.write(ctx, sample); err != nil {
			return err
		}
	}

	if !h.wroteContainer {
		h.wroteContainer = true
		h.segmentStart = sample.PTS
		if h.listener != nil {
			return h.listener.OnNewContainer("")
		}
		return nil
	}

	if sample.KeyFrame && h.listener != nil {
		seg := manifest.Segment{StartTime: uint64(h.segmentStart), Duration: uint64(sample.PTS - h.segmentStart)}
		h.segmentStart = sample.PTS
		return h.listener.OnNewSegment(seg)
	}
	return nil
}

// Flush finalizes the last open segment.
func (h *WebVttTextOutputHandler) Flush(ctx context.Context) error {
	if h.listener == nil || !h.wroteContainer {
		return nil
	}
	return h.listener.OnNewSegment(manifest.Segment{StartTime: uint64(h.segmentStart)})
}

// Cancel is a no-op: this is a terminal handler with no downstream
// successors.
func (h *WebVttTextOutputHandler) Cancel() {}
