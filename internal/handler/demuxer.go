package handler

import (
	"context"
	"sync"

	"github.com/theassyrian/shaka-packager/internal/keysource"
)

// DemuxFunc is the external collaborator that actually parses an input's
// container and emits one Sample per elementary stream to the given
// selector's output. The orchestration core never parses bytes itself —
// it only owns when DemuxFunc runs and where its output goes.
type DemuxFunc func(ctx context.Context, input string, emit func(selector string, sample Sample) error) error

// Demuxer is a job root: one per distinct input URI across all A/V
// streams (invariant 1). Its outputs are keyed by stream_selector so a
// single demuxer instance can feed every stream the input carries.
type Demuxer struct {
	NamedOutputs

	input          string
	demux          DemuxFunc
	dumpStreamInfo bool
	keySource      keysource.KeySource

	mu                 sync.Mutex
	languageOverrides  map[string]string
	cancelled          bool
}

// NewDemuxer creates a Demuxer for input, driven by demux.
func NewDemuxer(input string, demux DemuxFunc) *Demuxer {
	return &Demuxer{input: input, demux: demux, languageOverrides: make(map[string]string)}
}

// Input returns the input URI this demuxer was created for, the natural
// de-duplication key (invariant 1).
func (d *Demuxer) Input() string { return d.input }

// SetDumpStreamInfo toggles dump-only mode, where the demuxer is allowed
// to have no bound outputs (invariant 4).
func (d *Demuxer) SetDumpStreamInfo(v bool) { d.dumpStreamInfo = v }

// SetKeySource installs a decryption key source for an already-encrypted
// input.
func (d *Demuxer) SetKeySource(ks keysource.KeySource) { d.keySource = ks }

// SetLanguageOverride records a language override for a given selector.
// Run does not apply it to the emitted samples; LanguageOverride reports it.
func (d *Demuxer) SetLanguageOverride(selector, language string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.languageOverrides[selector] = language
}

// LanguageOverride returns the override installed for selector, if any.
func (d *Demuxer) LanguageOverride(selector string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	lang, ok := d.languageOverrides[selector]
	return lang, ok
}

// Run drives demux to completion, forwarding each emitted sample to the
// matching named output, then flushes every output. Demuxer is a job
// root: the job manager calls Run on its own goroutine.
func (d *Demuxer) Run(ctx context.Context) error {
	emit := func(selector string, sample Sample) error {
		d.mu.Lock()
		cancelled := d.cancelled
		d.mu.Unlock()
		if cancelled {
			return context.Canceled
		}
		return d.NamedOutputs.Emit(ctx, selector, sample)
	}

	if d.demux != nil {
		if err := d.demux(ctx, d.input, emit); err != nil {
			return err
		}
	}

	return d.NamedOutputs.Flush(ctx)
}

// Cancel signals in-flight processing to stop and propagates cancellation
// to every bound successor.
func (d *Demuxer) Cancel() {
	d.mu.Lock()
	d.cancelled = true
	d.mu.Unlock()
	d.NamedOutputs.Cancel()
}
