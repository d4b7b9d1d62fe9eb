// Command ring-consume is a demo frame consumer: it attaches to a frame
// ring (retrying until the producer creates it), then polls write_idx and
// hands newly-available windows off to a worker pool for processing,
// mirroring the fan-out spec.md leaves to "any number of readers".
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/srediag/frame-ring/internal/registry"
	"github.com/srediag/frame-ring/pkg/ring"
)

func main() {
	var (
		name         = flag.String("name", "/frame-ring-demo", "backing object name")
		capacity     = flag.Uint64("capacity", 1024, "ring capacity in frames")
		frameBytes   = flag.Uint64("frame-bytes", 256, "bytes per frame")
		workers      = flag.Int("workers", 8, "worker-pool size for frame processing")
		pollInterval = flag.Duration("poll-interval", 5*time.Millisecond, "write_idx poll interval")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := ants.NewPool(*workers, ants.WithNonblocking(true))
	if err != nil {
		log.Fatalf("ring-consume: create worker pool: %v", err)
	}
	defer pool.Release()

	reg := registry.New()
	defer reg.CloseAll()

	r, err := reg.OpenOrGet(ctx, *name, *capacity, *frameBytes, ring.Config{})
	if err != nil {
		r, err = ring.OpenWithRetry(ctx, *name, *capacity, *frameBytes, ring.Config{})
		if err != nil {
			log.Fatalf("ring-consume: open %q: %v", *name, err)
		}
	}

	consumeLoop(ctx, r, pool, *pollInterval)
}

// consumeLoop polls write_idx and, on every advance, submits the newly
// published frames' logical range to the worker pool. It never blocks on
// worker completion: a slow worker is the caller's back-pressure problem,
// per spec.md's no-blocking-the-producer stance (readers are entirely
// decoupled from the writer).
func consumeLoop(ctx context.Context, r *ring.Ring, pool *ants.Pool, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lastSeen := r.WriteIndex()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := r.WriteIndex()
			if cur == lastSeen {
				continue
			}
			start, n := lastSeen, cur-lastSeen
			lastSeen = cur

			err := pool.Submit(func() { processFrames(r, start, n) })
			if err != nil && !errors.Is(err, ants.ErrPoolClosed) {
				log.Printf("ring-consume: submit dropped a batch: %v", err)
			}
		}
	}
}

// processFrames is a placeholder consumer body: a real deployment would
// decode and act on the frames here.
func processFrames(r *ring.Ring, start, n uint64) {
	if n > r.Capacity() {
		// the reader lagged past the oldest still-live frame
		start += n - r.Capacity()
		n = r.Capacity()
	}
	log.Printf("ring-consume: observed %d new frames starting at logical index %d", n, start)
}
