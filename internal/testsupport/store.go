package testsupport

import (
	"context"
	"sync"
	"testing"

	"github.com/theassyrian/shaka-packager/internal/descriptor"
	"github.com/theassyrian/shaka-packager/internal/keysource"
	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// NewStreamDescriptor builds a minimal valid descriptor.StreamDescriptor
// for input/selector/output, leaving every other field at its zero value
// so tests only set what the scenario under test cares about.
func NewStreamDescriptor(input, selector, output string) descriptor.StreamDescriptor {
	return descriptor.StreamDescriptor{
		Input:          input,
		StreamSelector: selector,
		Output:         output,
	}
}

// NewKeySource returns a keysource.KeySource over keysource.NewMemoSource
// that deterministically derives a key from the requested label, so tests
// exercising encryption don't need a real key server.
func NewKeySource(t testing.TB) keysource.KeySource {
	t.Helper()
	return keysource.NewMemoSource(func(_ context.Context, label string) (keysource.Key, error) {
		return keysource.Key{
			ID:  []byte(label),
			Key: []byte("test-key-" + label),
			IV:  []byte("test-iv-" + label),
		}, nil
	})
}

// RecordingMpd is a manifest.MpdNotifier test double that records every
// call it receives, guarded by a mutex since graph-builder tests may drive
// it from more than one goroutine.
type RecordingMpd struct {
	mu         sync.Mutex
	Containers []manifest.Representation
	Segments   map[string][]manifest.Segment
	Flushed    int
}

// NewRecordingMpd returns an empty RecordingMpd.
func NewRecordingMpd() *RecordingMpd {
	return &RecordingMpd{Segments: make(map[string][]manifest.Segment)}
}

func (r *RecordingMpd) NotifyNewContainer(rep manifest.Representation, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Containers = append(r.Containers, rep)
	return nil
}

func (r *RecordingMpd) NotifyNewSegment(repID string, seg manifest.Segment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Segments[repID] = append(r.Segments[repID], seg)
	return nil
}

func (r *RecordingMpd) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Flushed++
	return nil
}
