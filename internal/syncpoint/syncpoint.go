// Package syncpoint implements the shared cue-point queue consumed by every
// CueAlignmentHandler in a run: a monotonically sorted set of cue
// timestamps that every consumer reads from the same instance.
package syncpoint

import (
	"context"
	"sync"
)

// Queue is the SyncPointQueue: an ordered sequence of cue-point timestamps
// shared by every CueAlignmentHandler across all input threads. It does not
// know how many consumers there are: a request blocks only while it is more
// than one index past the highest index any consumer has retrieved, so a
// consumer that requests every index in order never blocks, whatever the
// other consumers have read.
type Queue struct {
	mu   sync.Mutex
	cond *sync.Cond

	points  []float64
	done    bool
	highest int // highest index any consumer has successfully retrieved, -1 if none
}

// New creates a queue seeded with the given cue-point timestamps, which
// must already be sorted ascending — the graph builder is responsible for
// ordering ad_cue_generator_params.cue_points before constructing the
// queue.
func New(points []float64) *Queue {
	q := &Queue{points: points, highest: -1}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Len reports the number of cue points in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.points)
}

// Get returns the cue point at index i, blocking the caller while i is more
// than one ahead of the highest index any consumer has successfully
// retrieved. That highest index may have been reached by the fastest
// consumer, so Get does not hold a consumer back to the pace of the
// slowest one. It unblocks waiters via Broadcast whenever a consumer
// retrieves a new highest index. Returns false if i is out of range or ctx
// is cancelled while waiting.
func (q *Queue) Get(ctx context.Context, i int) (float64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if i < 0 || i >= len(q.points) {
		return 0, false
	}

	for i > q.highest+1 {
		if !q.waitLocked(ctx) {
			return 0, false
		}
	}

	if i > q.highest {
		q.highest = i
		q.cond.Broadcast()
	}
	return q.points[i], true
}

// waitLocked blocks on q.cond until woken or ctx is cancelled, reporting
// whether the wait completed normally. Callers must hold q.mu.
func (q *Queue) waitLocked(ctx context.Context) bool {
	if ctx == nil {
		q.cond.Wait()
		return true
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-stopped:
		}
		close(done)
	}()

	q.cond.Wait()
	close(stopped)
	<-done

	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}
