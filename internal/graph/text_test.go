package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/theassyrian/shaka-packager/internal/descriptor"
	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
	"github.com/theassyrian/shaka-packager/internal/handler"
	"github.com/theassyrian/shaka-packager/internal/manifest"
)

func TestBuildTextWebVttToMp4(t *testing.T) {
	stream := descriptor.StreamDescriptor{
		Input: "c.vtt", StreamSelector: "text", OutputFormat: "mp4", Output: "c.mp4",
	}
	jobs := &fakeRegistrar{}
	c := &Collaborators{
		TextParseFuncFor: func(descriptor.StreamDescriptor) handler.TextParseFunc {
			return func(ctx context.Context, input string, emit func(handler.Sample) error) error {
				return emit(handler.Sample{PTS: 1})
			}
		},
	}

	if err := BuildText([]descriptor.StreamDescriptor{stream}, handler.ChunkingParams{}, c, manifest.NoopMpd{}, jobs); err != nil {
		t.Fatalf("BuildText: %v", err)
	}
	if len(jobs.names) != 1 || jobs.names[0] != "MP4 text job" {
		t.Fatalf("jobs = %v, want exactly one \"MP4 text job\"", jobs.names)
	}
}

func TestBuildTextRejectsNonWebVttInput(t *testing.T) {
	stream := descriptor.StreamDescriptor{Input: "c.ttml", StreamSelector: "text", Output: "c.vtt"}
	jobs := &fakeRegistrar{}
	c := &Collaborators{}

	err := BuildText([]descriptor.StreamDescriptor{stream}, handler.ChunkingParams{}, c, manifest.NoopMpd{}, jobs)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestBuildTextHlsRequiresSegmentTemplate(t *testing.T) {
	stream := descriptor.StreamDescriptor{Input: "c.vtt", StreamSelector: "text", Output: "c.vtt"}
	jobs := &fakeRegistrar{}

	var hls manifest.HlsNotifier = &manifest.SimpleHls{}
	factory := &manifest.ListenerFactory{Hls: hls}
	c := &Collaborators{ListenerFactory: factory}

	err := BuildText([]descriptor.StreamDescriptor{stream}, handler.ChunkingParams{}, c, manifest.NoopMpd{}, jobs)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument (missing segment_template for HLS text)", err)
	}
}

func TestBuildTextSegmentedTextJob(t *testing.T) {
	stream := descriptor.StreamDescriptor{
		Input: "c.vtt", StreamSelector: "text", SegmentTemplate: "c-$Number$.vtt",
	}
	jobs := &fakeRegistrar{}

	hls := manifest.NewHlsNotifier("master.m3u8", nil)
	factory := &manifest.ListenerFactory{Hls: hls}
	c := &Collaborators{
		ListenerFactory: factory,
		TextParseFuncFor: func(descriptor.StreamDescriptor) handler.TextParseFunc {
			return func(ctx context.Context, input string, emit func(handler.Sample) error) error { return nil }
		},
	}

	if err := BuildText([]descriptor.StreamDescriptor{stream}, handler.ChunkingParams{}, c, manifest.NoopMpd{}, jobs); err != nil {
		t.Fatalf("BuildText: %v", err)
	}
	if len(jobs.names) != 1 || jobs.names[0] != "Segmented Text Job" {
		t.Fatalf("jobs = %v, want exactly one \"Segmented Text Job\"", jobs.names)
	}
}

func TestBuildTextPassthroughCopiesAndNotifiesMpd(t *testing.T) {
	stream := descriptor.StreamDescriptor{Input: "c.vtt", StreamSelector: "text", Output: "out.vtt", Bandwidth: 0}
	jobs := &fakeRegistrar{}

	var copied [2]string
	var notified TextMediaInfo
	var flushed bool

	mpd := &recordingMpd{onNotify: func(info TextMediaInfo) { notified = info }, onFlush: func() { flushed = true }}

	c := &Collaborators{
		CopyFile: func(src, dst string) error {
			copied[0], copied[1] = src, dst
			return nil
		},
		DetermineTextFileCodec: func(input string) (string, error) { return "wvtt", nil },
		NotifyTextContainer:    func(info TextMediaInfo) error { mpd.onNotify(info); return nil },
	}

	if err := BuildText([]descriptor.StreamDescriptor{stream}, handler.ChunkingParams{}, c, mpd, jobs); err != nil {
		t.Fatalf("BuildText: %v", err)
	}
	if copied[0] != "c.vtt" || copied[1] != "out.vtt" {
		t.Fatalf("CopyFile called with %v, want c.vtt -> out.vtt", copied)
	}
	if notified.Codec != "wvtt" || notified.Bandwidth != DefaultTextBandwidth {
		t.Fatalf("notified = %+v, want wvtt codec and default bandwidth", notified)
	}
	if !flushed {
		t.Fatal("expected mpd.Flush to be called")
	}
}

// recordingMpd is a minimal manifest.MpdNotifier double that is not
// manifest.NoopMpd, used to exercise the text-passthrough notify path.
type recordingMpd struct {
	onNotify func(TextMediaInfo)
	onFlush  func()
}

func (m *recordingMpd) NotifyNewContainer(manifest.Representation, string) error { return nil }
func (m *recordingMpd) NotifyNewSegment(string, manifest.Segment) error          { return nil }
func (m *recordingMpd) Flush() error {
	if m.onFlush != nil {
		m.onFlush()
	}
	return nil
}
