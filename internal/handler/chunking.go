package handler

import "context"

// ChunkingParams configures segment/subsegment duration and SAP alignment,
// shared by ChunkingHandler (A/V) and TextChunker (text).
type ChunkingParams struct {
	SegmentDurationSeconds    float64
	SubsegmentDurationSeconds float64
	SegmentSapAligned         bool
	SubsegmentSapAligned      bool
}

// ChunkingHandler forwards an incoming A/V sample stream unchanged,
// recording the PTS of the latest key frame as the current segment start.
// It adds no boundary marker to the samples; the Muxer starts its segments
// at key frames on its own.
type ChunkingHandler struct {
	Input
	Output

	params       ChunkingParams
	segmentStart int64
}

// NewChunkingHandler creates a handler configured by params.
func NewChunkingHandler(params ChunkingParams) *ChunkingHandler {
	return &ChunkingHandler{params: params}
}

// AcceptSample forwards sample downstream, recording its PTS as the
// segment start when it is a key frame.
func (h *ChunkingHandler) AcceptSample(ctx context.Context, sample Sample) error {
	if sample.KeyFrame {
		h.segmentStart = sample.PTS
	}
	return h.Output.Emit(ctx, sample)
}

// Flush forwards to bound successors.
func (h *ChunkingHandler) Flush(ctx context.Context) error { return h.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (h *ChunkingHandler) Cancel() { h.Output.Cancel() }

// TextChunker is the text-pipeline analog of ChunkingHandler, constructed
// from ChunkingParams.SegmentDurationSeconds alone (text has no
// subsegment/SAP concept), matching CreateTextChunker in the original
// source.
type TextChunker struct {
	Input
	Output

	segmentDurationSeconds float64
}

// NewTextChunker creates a text chunker with the given segment duration.
func NewTextChunker(segmentDurationSeconds float64) *TextChunker {
	return &TextChunker{segmentDurationSeconds: segmentDurationSeconds}
}

// AcceptSample forwards sample downstream unchanged.
func (t *TextChunker) AcceptSample(ctx context.Context, sample Sample) error {
	return t.Output.Emit(ctx, sample)
}

// Flush forwards to bound successors.
func (t *TextChunker) Flush(ctx context.Context) error { return t.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (t *TextChunker) Cancel() { t.Output.Cancel() }
