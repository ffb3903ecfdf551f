package handler

import "context"

// TrickPlayHandler derives a reduced-frame-rate track by keeping only
// every Factor-th key frame from its upstream sample stream, used for
// fast-forward/rewind playback. Inserted between a Replicator and a Muxer
// only when trick_play_factor > 0.
type TrickPlayHandler struct {
	Input
	Output

	Factor uint
	seen   uint
}

// NewTrickPlayHandler creates a handler that keeps every factor-th key
// frame.
func NewTrickPlayHandler(factor uint) *TrickPlayHandler {
	return &TrickPlayHandler{Factor: factor}
}

// AcceptSample drops non-key frames and every key frame that doesn't land
// on this handler's factor boundary, forwarding the rest downstream.
func (h *TrickPlayHandler) AcceptSample(ctx context.Context, sample Sample) error {
	if !sample.KeyFrame && !sample.EOS {
		return nil
	}
	if sample.EOS {
		return h.Output.Emit(ctx, sample)
	}
	keep := h.Factor == 0 || h.seen%h.Factor == 0
	h.seen++
	if !keep {
		return nil
	}
	return h.Output.Emit(ctx, sample)
}

// Flush forwards to bound successors.
func (h *TrickPlayHandler) Flush(ctx context.Context) error { return h.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (h *TrickPlayHandler) Cancel() { h.Output.Cancel() }
