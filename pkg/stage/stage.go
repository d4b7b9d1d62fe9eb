// Package stage provides a producer-side staging queue that lets several
// goroutines in the single producer process hand frames to one dedicated
// publisher goroutine, which is the only one that ever calls
// ring.Ring.Publish. It is grounded on the teacher repository's
// plugin/queue.go, a lock-free queue built on
// github.com/Workiva/go-datastructures/queue, resized here from
// wire-protocol elements to raw frame payloads.
package stage

import (
	"errors"

	"github.com/Workiva/go-datastructures/queue"
)

var (
	// ErrStageFull is returned by Offer when the queue already holds
	// capacity frames; the caller should apply back-pressure or drop the
	// frame, matching the ring's own no-back-pressure philosophy.
	ErrStageFull = errors.New("stage: queue full")
	// ErrStageClosed is returned by Offer after Close.
	ErrStageClosed = errors.New("stage: queue closed")
)

// Stage is a bounded, lock-free FIFO of pending frame payloads.
type Stage struct {
	q        *queue.Queue
	capacity int64
}

// NewStage creates a Stage advertising capacity as its advisory limit.
// The underlying go-datastructures queue is not itself capacity-bounded,
// so Offer enforces the limit by checking Len before Put.
func NewStage(capacity int) *Stage {
	return &Stage{q: queue.New(int64(capacity)), capacity: int64(capacity)}
}

// Offer enqueues frame, a single fully-formed frame payload of exactly
// frame_bytes bytes. It does not block.
func (s *Stage) Offer(frame []byte) error {
	if s.q.Disposed() {
		return ErrStageClosed
	}
	if s.q.Len() >= s.capacity {
		return ErrStageFull
	}
	if err := s.q.Put(frame); err != nil {
		return ErrStageClosed
	}
	return nil
}

// Drain pulls up to max queued frames for a single Ring.Publish call,
// batching the release-store the way a real-time producer loop should.
// It blocks until at least one frame is available or the stage is
// closed, in which case it returns a nil slice.
func (s *Stage) Drain(max int) [][]byte {
	items, err := s.q.Get(int64(max))
	if err != nil || len(items) == 0 {
		return nil
	}
	frames := make([][]byte, len(items))
	for i, it := range items {
		frames[i] = it.([]byte)
	}
	return frames
}

// Len reports the number of frames currently queued.
func (s *Stage) Len() int {
	return int(s.q.Len())
}

// Close disposes the queue. Idempotent; further Offer calls return
// ErrStageClosed and any blocked Drain returns nil.
func (s *Stage) Close() {
	s.q.Dispose()
}
