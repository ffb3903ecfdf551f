// Package handler defines the closed set of pipeline-graph node kinds the
// graph builders wire together — Demuxer, CueAlignmentHandler,
// ChunkingHandler, TextChunker, EncryptionHandler, Replicator,
// TrickPlayHandler, Muxer, WebVttParser, TextPadder, WebVttToMp4Handler,
// WebVttTextOutputHandler — plus the small capability interfaces and the
// Chain helper used to bind them together.
//
// Handlers are a closed, known-at-build-time set (per spec.md's "model as
// a tagged variant or capability interface... avoid open inheritance").
// Each concrete type embeds Input and/or Output to get the single-bind
// guard and multi-successor fan-out for free; the type itself only
// implements the sample-processing logic.
package handler

import (
	"context"
	"sync"

	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// Sample is one unit of media data pushed through a chain. Real codec
// parsing/muxing is an external collaborator (spec.md §1); Sample carries
// only what the orchestration core needs to route and order data.
type Sample struct {
	PTS      int64
	DTS      int64
	Duration int64
	KeyFrame bool
	EOS      bool
	Data     []byte
}

// MediaHandler is the push-model capability set every non-root node in a
// chain implements: accept a sample from upstream, flush buffered state at
// end of stream, and respond to cooperative cancellation.
type MediaHandler interface {
	AcceptSample(ctx context.Context, sample Sample) error
	Flush(ctx context.Context) error
	Cancel()
}

// OriginHandler is a job root: it owns no upstream, pulls bytes from an
// external input, and drives its downstream chain to completion when Run
// is invoked by the job manager on its own goroutine.
type OriginHandler interface {
	Run(ctx context.Context) error
	Cancel()
}

// Input is an embeddable single-predecessor guard. Every MediaHandler
// except Replicator's fan-out targets (which each still only take one
// predecessor — the replicator itself) embeds Input so Chain can enforce
// invariant: a handler's input may be bound exactly once.
type Input struct {
	mu    sync.Mutex
	bound bool
}

// Bind marks the input as claimed by a predecessor. It fails if the input
// was already bound, surfacing the "re-binding an already-bound input"
// Chain() violation named in spec.md §4.4.
func (i *Input) Bind() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.bound {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "handler", "Chain", "input already bound", nil)
	}
	i.bound = true
	return nil
}

// Output is an embeddable fan-out point: zero or more bound successors
// that AcceptSample/Flush/Cancel forward to, in registration order. Most
// handler kinds bind exactly one successor; Replicator and Demuxer's
// per-selector outputs may bind more than one.
type Output struct {
	mu         sync.Mutex
	successors []MediaHandler
}

// Bind registers succ as a downstream successor of this output.
func (o *Output) Bind(succ MediaHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.successors = append(o.successors, succ)
}

// Len reports how many successors are currently bound.
func (o *Output) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.successors)
}

// Successors returns a snapshot of the currently bound successors, for
// callers that need to inspect chain wiring (graph builder tests).
func (o *Output) Successors() []MediaHandler {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]MediaHandler(nil), o.successors...)
}

// Emit forwards sample to every bound successor, in registration order,
// stopping at (and returning) the first error.
func (o *Output) Emit(ctx context.Context, sample Sample) error {
	o.mu.Lock()
	successors := append([]MediaHandler(nil), o.successors...)
	o.mu.Unlock()

	for _, succ := range successors {
		if err := succ.AcceptSample(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}

// Flush forwards Flush to every bound successor, returning the first
// error but still attempting every successor so partial output is
// consistent with the "no rollback" cancellation contract.
func (o *Output) Flush(ctx context.Context) error {
	o.mu.Lock()
	successors := append([]MediaHandler(nil), o.successors...)
	o.mu.Unlock()

	var first error
	for _, succ := range successors {
		if err := succ.Flush(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Cancel forwards Cancel to every bound successor.
func (o *Output) Cancel() {
	o.mu.Lock()
	successors := append([]MediaHandler(nil), o.successors...)
	o.mu.Unlock()

	for _, succ := range successors {
		succ.Cancel()
	}
}

// NamedOutputs is a set of Output fan-outs keyed by a selector string, used
// by handlers that expose more than one logical output pin — currently
// only Demuxer, whose outputs are keyed by stream_selector.
type NamedOutputs struct {
	mu      sync.Mutex
	outputs map[string]*Output
}

func (n *NamedOutputs) outputFor(selector string) *Output {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.outputs == nil {
		n.outputs = make(map[string]*Output)
	}
	out, ok := n.outputs[selector]
	if !ok {
		out = &Output{}
		n.outputs[selector] = out
	}
	return out
}

// Bind registers succ as a successor on the output named by selector.
func (n *NamedOutputs) Bind(selector string, succ MediaHandler) {
	n.outputFor(selector).Bind(succ)
}

// Successors returns a snapshot of the successors bound to the output
// named by selector, for callers that need to inspect chain wiring (graph
// builder tests).
func (n *NamedOutputs) Successors(selector string) []MediaHandler {
	return n.outputFor(selector).Successors()
}

// Emit forwards sample to every successor bound to selector's output.
func (n *NamedOutputs) Emit(ctx context.Context, selector string, sample Sample) error {
	return n.outputFor(selector).Emit(ctx, sample)
}

// Flush forwards Flush to every successor on every named output.
func (n *NamedOutputs) Flush(ctx context.Context) error {
	n.mu.Lock()
	outs := make([]*Output, 0, len(n.outputs))
	for _, out := range n.outputs {
		outs = append(outs, out)
	}
	n.mu.Unlock()

	var first error
	for _, out := range outs {
		if err := out.Flush(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Cancel forwards Cancel to every successor on every named output.
func (n *NamedOutputs) Cancel() {
	n.mu.Lock()
	outs := make([]*Output, 0, len(n.outputs))
	for _, out := range n.outputs {
		outs = append(outs, out)
	}
	n.mu.Unlock()

	for _, out := range outs {
		out.Cancel()
	}
}

// Chain binds succ downstream of pred's default output, enforcing that
// succ's input has not already been bound. Use ChainSelector for a
// predecessor with named outputs (Demuxer).
func Chain(pred *Output, succ MediaHandler, succIn *Input) error {
	if err := succIn.Bind(); err != nil {
		return err
	}
	pred.Bind(succ)
	return nil
}

// ChainSelector binds succ downstream of pred's output named selector.
func ChainSelector(pred *NamedOutputs, selector string, succ MediaHandler, succIn *Input) error {
	if err := succIn.Bind(); err != nil {
		return err
	}
	pred.Bind(selector, succ)
	return nil
}
