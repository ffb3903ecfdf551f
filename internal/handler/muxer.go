package handler

import (
	"context"

	"github.com/theassyrian/shaka-packager/internal/container"
	"github.com/theassyrian/shaka-packager/internal/manifest"
)

// MuxWriteFunc is the external collaborator that actually writes sample
// into the container-specific output; the core's job is deciding when a
// segment boundary falls and notifying the manifest listener, not
// container byte-level muxing.
type MuxWriteFunc func(ctx context.Context, sample Sample) error

// Muxer is a terminal handler: it has an input but no downstream
// successor. It writes samples into container-formatted output and
// notifies its MuxerListener on new container / new segment / flush so
// manifest notifiers stay in sync with what actually got written.
type Muxer struct {
	Input

	format          container.MediaContainer
	outputPath      string
	segmentTemplate string
	listener        *manifest.Listener
	write           MuxWriteFunc

	wroteContainer bool
	segmentStart   int64
	segmentCount   uint64
}

// NewMuxer creates a muxer for format, writing to outputPath (single-file)
// or segmentTemplate (segmented), notifying listener as data is written.
func NewMuxer(format container.MediaContainer, outputPath, segmentTemplate string, listener *manifest.Listener, write MuxWriteFunc) *Muxer {
	return &Muxer{
		format:          format,
		outputPath:      outputPath,
		segmentTemplate: segmentTemplate,
		listener:        listener,
		write:           write,
	}
}

// AcceptSample writes sample via the injected MuxWriteFunc, emitting a
// NotifyNewContainer on first sample and a NotifyNewSegment on every
// subsequent key frame, since a key frame is where this format always
// starts a new segment.
func (m *Muxer) AcceptSample(ctx context.Context, sample Sample) error {
	if m.write != nil {
		if err := m.write(ctx, sample); err != nil {
			return err
		}
	}

	if !m.wroteContainer {
		m.wroteContainer = true
		m.segmentStart = sample.PTS
		if m.listener != nil {
			path := m.outputPath
			if path == "" {
				path = m.segmentTemplate
			}
			if err := m.listener.OnNewContainer(path); err != nil {
				return err
			}
		}
		return nil
	}

	if sample.KeyFrame {
		if m.listener != nil {
			seg := manifest.Segment{
				StartTime: uint64(m.segmentStart),
				Duration:  uint64(sample.PTS - m.segmentStart),
			}
			if err := m.listener.OnNewSegment(seg); err != nil {
				return err
			}
		}
		m.segmentStart = sample.PTS
		m.segmentCount++
	}
	return nil
}

// Flush finalizes the last open segment by notifying the listener.
func (m *Muxer) Flush(ctx context.Context) error {
	if m.listener == nil || !m.wroteContainer {
		return nil
	}
	return m.listener.OnNewSegment(manifest.Segment{StartTime: uint64(m.segmentStart)})
}

// Cancel is a no-op: a muxer has no downstream successors to propagate to.
// Partially written output is left as-is per the cancellation contract.
func (m *Muxer) Cancel() {}
