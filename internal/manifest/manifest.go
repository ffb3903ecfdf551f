// Package manifest defines the MpdNotifier/HlsNotifier collaborator
// interfaces muxers call into as they emit containers and segments, a
// Simple file-backed implementation of each, Noop stand-ins for when an
// output isn't configured, and the ListenerFactory that bridges a
// stream descriptor's HLS fields to the right listener.
//
// Modeled on five82-spindle's internal/notifications.Service: an interface
// the rest of the system programs against, plus a real/noop factory
// selected by whether an output is actually configured.
package manifest

import (
	"sync"
)

// Representation identifies one muxer's output within a manifest.
type Representation struct {
	ID         string
	Bandwidth  uint64
	Language   string
	GroupID    string
	Name       string
	PlaylistName        string
	IframePlaylistName  string
}

// Segment describes one emitted media segment.
type Segment struct {
	StartTime uint64
	Duration  uint64
	Size      uint64
}

// MpdNotifier is the DASH manifest collaborator. Any muxer goroutine may
// call any method concurrently; implementations must synchronize
// internally.
type MpdNotifier interface {
	NotifyNewContainer(rep Representation, containerPath string) error
	NotifyNewSegment(repID string, seg Segment) error
	Flush() error
}

// HlsNotifier is the HLS manifest collaborator, same concurrency contract
// as MpdNotifier.
type HlsNotifier interface {
	NotifyNewContainer(rep Representation, containerPath string) error
	NotifyNewSegment(repID string, seg Segment) error
	Flush() error
}

// NoopMpd discards all notifications, used when mpd_params.mpd_output is
// unset.
type NoopMpd struct{}

func (NoopMpd) NotifyNewContainer(Representation, string) error { return nil }
func (NoopMpd) NotifyNewSegment(string, Segment) error           { return nil }
func (NoopMpd) Flush() error                                     { return nil }

// NoopHls discards all notifications, used when
// hls_params.master_playlist_output is unset.
type NoopHls struct{}

func (NoopHls) NotifyNewContainer(Representation, string) error { return nil }
func (NoopHls) NotifyNewSegment(string, Segment) error           { return nil }
func (NoopHls) Flush() error                                     { return nil }

// SimpleMpd accumulates representations and segments in memory, guarded by
// a mutex since multiple muxer goroutines call in concurrently, and writes
// a manifest document to outputPath on Flush.
type SimpleMpd struct {
	mu       sync.Mutex
	output   string
	writer   func(output string, reps map[string][]Segment, registry map[string]Representation) error
	reps     map[string]Representation
	segments map[string][]Segment
}

// NewSimpleMpd creates a SimpleMpd that will write to output on Flush using
// write. write is injected so the manifest document encoding (an external
// collaborator per spec.md §1) stays out of this package.
func NewSimpleMpd(output string, write func(output string, reps map[string][]Segment, registry map[string]Representation) error) *SimpleMpd {
	return &SimpleMpd{
		output:   output,
		writer:   write,
		reps:     make(map[string]Representation),
		segments: make(map[string][]Segment),
	}
}

func (m *SimpleMpd) NotifyNewContainer(rep Representation, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reps[rep.ID] = rep
	return nil
}

func (m *SimpleMpd) NotifyNewSegment(repID string, seg Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[repID] = append(m.segments[repID], seg)
	return nil
}

func (m *SimpleMpd) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writer == nil {
		return nil
	}
	return m.writer(m.output, m.segments, m.reps)
}

// SimpleHls mirrors SimpleMpd for the HLS master playlist.
type SimpleHls struct {
	mu       sync.Mutex
	output   string
	writer   func(output string, reps map[string][]Segment, registry map[string]Representation) error
	reps     map[string]Representation
	segments map[string][]Segment
}

// NewSimpleHls creates a SimpleHls that will write to output on Flush.
func NewSimpleHls(output string, write func(output string, reps map[string][]Segment, registry map[string]Representation) error) *SimpleHls {
	return &SimpleHls{
		output:   output,
		writer:   write,
		reps:     make(map[string]Representation),
		segments: make(map[string][]Segment),
	}
}

func (h *SimpleHls) NotifyNewContainer(rep Representation, _ string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reps[rep.ID] = rep
	return nil
}

func (h *SimpleHls) NotifyNewSegment(repID string, seg Segment) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.segments[repID] = append(h.segments[repID], seg)
	return nil
}

func (h *SimpleHls) Flush() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.writer == nil {
		return nil
	}
	return h.writer(h.output, h.segments, h.reps)
}

// NewMpdNotifier returns a SimpleMpd when output is configured, else
// NoopMpd, mirroring notifications.NewService's real/noop selection.
func NewMpdNotifier(output string, write func(output string, reps map[string][]Segment, registry map[string]Representation) error) MpdNotifier {
	if output == "" {
		return NoopMpd{}
	}
	return NewSimpleMpd(output, write)
}

// NewHlsNotifier returns a SimpleHls when output is configured, else
// NoopHls.
func NewHlsNotifier(output string, write func(output string, reps map[string][]Segment, registry map[string]Representation) error) HlsNotifier {
	if output == "" {
		return NoopHls{}
	}
	return NewSimpleHls(output, write)
}
