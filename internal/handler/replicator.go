package handler

import "context"

// Replicator duplicates its input sample stream to every attached
// downstream chain. Exactly one exists per (input, stream_selector) pair
// with at least one output (invariant 2); any number of trick-play
// branches and muxers fan out from it.
type Replicator struct {
	Input
	Output
}

// NewReplicator creates an unbound replicator.
func NewReplicator() *Replicator { return &Replicator{} }

// AcceptSample forwards sample to every bound successor.
func (r *Replicator) AcceptSample(ctx context.Context, sample Sample) error {
	return r.Output.Emit(ctx, sample)
}

// Flush forwards to every bound successor.
func (r *Replicator) Flush(ctx context.Context) error { return r.Output.Flush(ctx) }

// Cancel forwards to every bound successor.
func (r *Replicator) Cancel() { r.Output.Cancel() }
