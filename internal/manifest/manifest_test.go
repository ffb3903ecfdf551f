package manifest

import (
	"sync"
	"testing"
)

func TestNewMpdNotifierSelectsNoopWhenOutputEmpty(t *testing.T) {
	n := NewMpdNotifier("", nil)
	if _, ok := n.(NoopMpd); !ok {
		t.Fatalf("expected NoopMpd, got %T", n)
	}
}

func TestNewHlsNotifierSelectsSimpleWhenOutputSet(t *testing.T) {
	n := NewHlsNotifier("master.m3u8", func(string, map[string][]Segment, map[string]Representation) error { return nil })
	if _, ok := n.(*SimpleHls); !ok {
		t.Fatalf("expected *SimpleHls, got %T", n)
	}
}

func TestSimpleMpdFlushInvokesWriterWithAccumulatedState(t *testing.T) {
	var gotReps map[string]Representation
	var gotSegs map[string][]Segment
	mpd := NewSimpleMpd("m.mpd", func(output string, segs map[string][]Segment, reps map[string]Representation) error {
		if output != "m.mpd" {
			t.Errorf("unexpected output path: %s", output)
		}
		gotReps = reps
		gotSegs = segs
		return nil
	})

	if err := mpd.NotifyNewContainer(Representation{ID: "v0"}, "v0.mp4"); err != nil {
		t.Fatalf("NotifyNewContainer: %v", err)
	}
	if err := mpd.NotifyNewSegment("v0", Segment{StartTime: 0, Duration: 10}); err != nil {
		t.Fatalf("NotifyNewSegment: %v", err)
	}
	if err := mpd.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if _, ok := gotReps["v0"]; !ok {
		t.Fatalf("expected representation v0 to be recorded")
	}
	if len(gotSegs["v0"]) != 1 {
		t.Fatalf("expected one segment for v0, got %d", len(gotSegs["v0"]))
	}
}

func TestSimpleMpdConcurrentNotifications(t *testing.T) {
	mpd := NewSimpleMpd("m.mpd", func(string, map[string][]Segment, map[string]Representation) error { return nil })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mpd.NotifyNewSegment("v0", Segment{Duration: 1})
		}()
	}
	wg.Wait()

	if len(mpd.segments["v0"]) != 50 {
		t.Fatalf("expected 50 segments, got %d", len(mpd.segments["v0"]))
	}
}

func TestListenerFactoryBuildsListenerBoundToSharedNotifiers(t *testing.T) {
	mpd := NewSimpleMpd("m.mpd", func(string, map[string][]Segment, map[string]Representation) error { return nil })
	factory := &ListenerFactory{Mpd: mpd, Hls: NoopHls{}}

	listener := factory.New(ListenerParams{RepresentationID: "v0", HLSGroupID: "audio-group", OutputPath: "v0.mp4"})
	if listener.Representation.GroupID != "audio-group" {
		t.Fatalf("unexpected group id: %s", listener.Representation.GroupID)
	}
	if listener.MediaInfoPath != "v0.mp4.media_info" {
		t.Fatalf("unexpected media info path: %s", listener.MediaInfoPath)
	}
	if err := listener.OnNewSegment(Segment{Duration: 5}); err != nil {
		t.Fatalf("OnNewSegment: %v", err)
	}
	if len(mpd.segments["v0"]) != 1 {
		t.Fatalf("expected listener to forward to shared mpd notifier")
	}
}
