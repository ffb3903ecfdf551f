package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/manifest"
	"github.com/theassyrian/shaka-packager/internal/syncpoint"
)

// recorder is a minimal MediaHandler that records every call it receives,
// standing in for a real downstream handler in chain-wiring tests.
type recorder struct {
	Input

	samples   []Sample
	flushed   bool
	cancelled bool
}

func (r *recorder) AcceptSample(ctx context.Context, sample Sample) error {
	r.samples = append(r.samples, sample)
	return nil
}

func (r *recorder) Flush(ctx context.Context) error {
	r.flushed = true
	return nil
}

func (r *recorder) Cancel() { r.cancelled = true }

func TestChainBindsSuccessorExactlyOnce(t *testing.T) {
	pred := &Output{}
	succ := &recorder{}

	if err := Chain(pred, succ, &succ.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if pred.Len() != 1 {
		t.Fatalf("Len = %d, want 1", pred.Len())
	}

	other := &recorder{}
	if err := Chain(pred, other, &succ.Input); err == nil {
		t.Fatal("expected error re-binding an already-bound input")
	}
}

func TestChainSelectorBindsByKey(t *testing.T) {
	var named NamedOutputs
	audio := &recorder{}
	video := &recorder{}

	if err := ChainSelector(&named, "audio", audio, &audio.Input); err != nil {
		t.Fatalf("ChainSelector audio: %v", err)
	}
	if err := ChainSelector(&named, "video", video, &video.Input); err != nil {
		t.Fatalf("ChainSelector video: %v", err)
	}

	ctx := context.Background()
	if err := named.Emit(ctx, "audio", Sample{PTS: 1}); err != nil {
		t.Fatalf("Emit audio: %v", err)
	}
	if len(audio.samples) != 1 || len(video.samples) != 0 {
		t.Fatalf("audio got %d samples, video got %d; want 1, 0", len(audio.samples), len(video.samples))
	}
}

func TestOutputEmitStopsAtFirstError(t *testing.T) {
	var out Output
	boom := errors.New("boom")
	failing := &recorder{}
	out.Bind(failing)

	// Replace with a handler that always errors by wrapping recorder via a
	// closure-based adapter.
	out2 := &Output{}
	erroring := erroringHandler{err: boom}
	out2.Bind(erroring)
	after := &recorder{}
	out2.Bind(after)

	if err := out2.Emit(context.Background(), Sample{}); !errors.Is(err, boom) {
		t.Fatalf("Emit error = %v, want %v", err, boom)
	}
	if len(after.samples) != 0 {
		t.Fatal("successor after the failing one should not have been called")
	}
}

type erroringHandler struct {
	Input
	err error
}

func (e erroringHandler) AcceptSample(ctx context.Context, sample Sample) error { return e.err }
func (e erroringHandler) Flush(ctx context.Context) error                      { return e.err }
func (e erroringHandler) Cancel()                                              {}

func TestDemuxerRunEmitsToSelectorsAndFlushes(t *testing.T) {
	demux := func(ctx context.Context, input string, emit func(string, Sample) error) error {
		if err := emit("audio", Sample{PTS: 1, KeyFrame: true}); err != nil {
			return err
		}
		return emit("video", Sample{PTS: 2, KeyFrame: true})
	}

	d := NewDemuxer("input.mp4", demux)
	audio := &recorder{}
	video := &recorder{}
	if err := ChainSelector(&d.NamedOutputs, "audio", audio, &audio.Input); err != nil {
		t.Fatalf("chain audio: %v", err)
	}
	if err := ChainSelector(&d.NamedOutputs, "video", video, &video.Input); err != nil {
		t.Fatalf("chain video: %v", err)
	}

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(audio.samples) != 1 || len(video.samples) != 1 {
		t.Fatalf("audio=%d video=%d, want 1,1", len(audio.samples), len(video.samples))
	}
	if !audio.flushed || !video.flushed {
		t.Fatal("expected both successors flushed")
	}
}

func TestDemuxerLanguageOverride(t *testing.T) {
	d := NewDemuxer("in.mp4", nil)
	if _, ok := d.LanguageOverride("audio"); ok {
		t.Fatal("expected no override before Set")
	}
	d.SetLanguageOverride("audio", "fra")
	lang, ok := d.LanguageOverride("audio")
	if !ok || lang != "fra" {
		t.Fatalf("LanguageOverride = %q, %v, want fra, true", lang, ok)
	}
}

func TestDemuxerCancelStopsEmit(t *testing.T) {
	d := NewDemuxer("in.mp4", nil)
	d.Cancel()

	demux := func(ctx context.Context, input string, emit func(string, Sample) error) error {
		return emit("audio", Sample{})
	}
	d2 := NewDemuxer("in.mp4", demux)
	d2.Cancel()
	if err := d2.Run(context.Background()); err == nil {
		t.Fatal("expected cancellation error from Run after Cancel")
	}
}

func TestCueAlignmentHandlerForwardsSamples(t *testing.T) {
	queue := syncpoint.New([]float64{10, 20})
	h := NewCueAlignmentHandler(queue)
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}

	ctx := context.Background()
	if err := h.AcceptSample(ctx, Sample{PTS: 5}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rec.samples))
	}
	if err := h.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !rec.flushed {
		t.Fatal("expected successor flushed")
	}
}

func TestChunkingHandlerTracksSegmentStart(t *testing.T) {
	h := NewChunkingHandler(ChunkingParams{SegmentDurationSeconds: 2})
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	ctx := context.Background()
	if err := h.AcceptSample(ctx, Sample{PTS: 0, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if h.segmentStart != 0 {
		t.Fatalf("segmentStart = %d, want 0", h.segmentStart)
	}
	if err := h.AcceptSample(ctx, Sample{PTS: 48000, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if h.segmentStart != 48000 {
		t.Fatalf("segmentStart = %d, want 48000", h.segmentStart)
	}
	if len(rec.samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(rec.samples))
	}
}

func TestTextChunkerForwardsSamplesUnchanged(t *testing.T) {
	tc := NewTextChunker(4)
	rec := &recorder{}
	if err := Chain(&tc.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := tc.AcceptSample(context.Background(), Sample{PTS: 1}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rec.samples))
	}
}

func TestEncryptionHandlerResolvesLabelAtConstruction(t *testing.T) {
	labelFn := keysource.ConstantLabelFunc("SD")
	params := keysource.EncryptionParams{StreamLabelFunc: labelFn}

	var gotLabel string
	fetch := func(ctx context.Context, label string) (keysource.Key, error) {
		gotLabel = label
		return keysource.Key{ID: []byte("id"), Key: []byte("key")}, nil
	}
	ks := keysource.NewMemoSource(fetch)

	h := NewEncryptionHandler(params, ks, keysource.EncryptedStreamAttributes{StreamType: keysource.Video, Width: 640, Height: 480})
	if h.Label() != "SD" {
		t.Fatalf("Label() = %q, want SD", h.Label())
	}

	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := h.AcceptSample(context.Background(), Sample{PTS: 1}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if gotLabel != "SD" {
		t.Fatalf("fetch called with label %q, want SD", gotLabel)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rec.samples))
	}
}

func TestReplicatorFansOutToEverySuccessor(t *testing.T) {
	r := NewReplicator()
	a := &recorder{}
	b := &recorder{}
	if err := Chain(&r.Output, a, &a.Input); err != nil {
		t.Fatalf("Chain a: %v", err)
	}
	if err := Chain(&r.Output, b, &b.Input); err != nil {
		t.Fatalf("Chain b: %v", err)
	}

	if err := r.AcceptSample(context.Background(), Sample{PTS: 7}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(a.samples) != 1 || len(b.samples) != 1 {
		t.Fatalf("a=%d b=%d, want 1,1", len(a.samples), len(b.samples))
	}
}

func TestTrickPlayHandlerKeepsEveryFactorthKeyFrame(t *testing.T) {
	h := NewTrickPlayHandler(3)
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if err := h.AcceptSample(ctx, Sample{PTS: int64(i), KeyFrame: true}); err != nil {
			t.Fatalf("AcceptSample %d: %v", i, err)
		}
	}
	if len(rec.samples) != 2 {
		t.Fatalf("got %d samples, want 2 (frames 0 and 3)", len(rec.samples))
	}
	if rec.samples[0].PTS != 0 || rec.samples[1].PTS != 3 {
		t.Fatalf("samples = %+v, want PTS 0 and 3", rec.samples)
	}
}

func TestTrickPlayHandlerDropsNonKeyFrames(t *testing.T) {
	h := NewTrickPlayHandler(2)
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := h.AcceptSample(context.Background(), Sample{PTS: 1, KeyFrame: false}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(rec.samples) != 0 {
		t.Fatalf("got %d samples, want 0", len(rec.samples))
	}
}

func TestTrickPlayHandlerPassesEOSUnconditionally(t *testing.T) {
	h := NewTrickPlayHandler(5)
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := h.AcceptSample(context.Background(), Sample{EOS: true}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("got %d samples, want 1 (EOS always forwarded)", len(rec.samples))
	}
}

func TestMuxerNotifiesContainerAndSegments(t *testing.T) {
	var factory manifest.ListenerFactory
	factory.Mpd = manifest.NoopMpd{}
	factory.Hls = manifest.NoopHls{}
	listener := factory.New(manifest.ListenerParams{RepresentationID: "v0"})

	var written []Sample
	write := func(ctx context.Context, sample Sample) error {
		written = append(written, sample)
		return nil
	}

	m := NewMuxer(container.MP4, "out.mp4", "", listener, write)
	ctx := context.Background()

	if err := m.AcceptSample(ctx, Sample{PTS: 0, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample 1: %v", err)
	}
	if !m.wroteContainer {
		t.Fatal("expected wroteContainer after first sample")
	}
	if err := m.AcceptSample(ctx, Sample{PTS: 48000, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample 2: %v", err)
	}
	if m.segmentCount != 1 {
		t.Fatalf("segmentCount = %d, want 1", m.segmentCount)
	}
	if err := m.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("write called %d times, want 2", len(written))
	}
}

func TestMuxerCancelIsNoop(t *testing.T) {
	m := NewMuxer(container.MP4, "out.mp4", "", nil, nil)
	m.Cancel() // must not panic
}

func TestWebVttParserRunEmitsAndFlushes(t *testing.T) {
	parse := func(ctx context.Context, input string, emit func(Sample) error) error {
		return emit(Sample{PTS: 1})
	}
	p := NewWebVttParser("captions.vtt", parse)
	rec := &recorder{}
	if err := Chain(&p.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.samples) != 1 || !rec.flushed {
		t.Fatalf("samples=%d flushed=%v, want 1, true", len(rec.samples), rec.flushed)
	}
}

func TestTextPadderZeroDurationForwardsUnchanged(t *testing.T) {
	p := NewTextPadder(0)
	if p.DurationSeconds != 0 {
		t.Fatalf("DurationSeconds = %v, want 0", p.DurationSeconds)
	}
	rec := &recorder{}
	if err := Chain(&p.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := p.AcceptSample(context.Background(), Sample{PTS: 3}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rec.samples))
	}
}

func TestWebVttToMp4HandlerAppliesTransform(t *testing.T) {
	transform := func(ctx context.Context, sample Sample) (Sample, error) {
		sample.Data = append([]byte("mp4:"), sample.Data...)
		return sample, nil
	}
	h := NewWebVttToMp4Handler(transform)
	rec := &recorder{}
	if err := Chain(&h.Output, rec, &rec.Input); err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if err := h.AcceptSample(context.Background(), Sample{Data: []byte("cue")}); err != nil {
		t.Fatalf("AcceptSample: %v", err)
	}
	if string(rec.samples[0].Data) != "mp4:cue" {
		t.Fatalf("Data = %q, want mp4:cue", rec.samples[0].Data)
	}
}

func TestWebVttTextOutputHandlerSegmentsOnKeyFrames(t *testing.T) {
	var factory manifest.ListenerFactory
	factory.Mpd = manifest.NoopMpd{}
	factory.Hls = manifest.NoopHls{}
	listener := factory.New(manifest.ListenerParams{RepresentationID: "text0"})

	var written []Sample
	write := func(ctx context.Context, sample Sample) error {
		written = append(written, sample)
		return nil
	}

	h := NewWebVttTextOutputHandler(write, listener)
	ctx := context.Background()
	if err := h.AcceptSample(ctx, Sample{PTS: 0, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample 1: %v", err)
	}
	if err := h.AcceptSample(ctx, Sample{PTS: 4000, KeyFrame: true}); err != nil {
		t.Fatalf("AcceptSample 2: %v", err)
	}
	if err := h.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("write called %d times, want 2", len(written))
	}
}
