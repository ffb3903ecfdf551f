package handler

import (
	"context"

	"github.com/theassyrian/shaka-packager/internal/syncpoint"
)

// CueAlignmentHandler reads cue points from the SyncPointQueue shared by
// every CueAlignmentHandler in the run, stepping past each cue point a
// sample's PTS has reached, and forwards every sample unchanged; it adds no
// segment-break marker to the samples.
type CueAlignmentHandler struct {
	Input
	Output

	queue *syncpoint.Queue
	next  int // index of the next cue point this handler expects to consume
}

// NewCueAlignmentHandler creates a handler bound to the shared queue.
func NewCueAlignmentHandler(queue *syncpoint.Queue) *CueAlignmentHandler {
	return &CueAlignmentHandler{queue: queue}
}

// Queue returns the shared queue this aligner rendezvous through, so
// callers (graph builder tests) can confirm every aligner constructed for
// a cue-point run shares one instance rather than one each.
func (h *CueAlignmentHandler) Queue() *syncpoint.Queue { return h.queue }

// AcceptSample advances past any cue point the sample's PTS has crossed,
// rendezvousing with the shared queue, then forwards the sample unchanged.
func (h *CueAlignmentHandler) AcceptSample(ctx context.Context, sample Sample) error {
	if h.queue != nil {
		for h.next < h.queue.Len() {
			cue, ok := h.queue.Get(ctx, h.next)
			if !ok {
				break
			}
			if float64(sample.PTS) < cue {
				break
			}
			h.next++
		}
	}
	return h.Output.Emit(ctx, sample)
}

// Flush forwards to bound successors.
func (h *CueAlignmentHandler) Flush(ctx context.Context) error { return h.Output.Flush(ctx) }

// Cancel forwards to bound successors.
func (h *CueAlignmentHandler) Cancel() { h.Output.Cancel() }
