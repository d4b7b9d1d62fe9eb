// Command ring-produce is a demo frame producer: it maps (or creates) a
// frame ring, generates synthetic frames on a fixed-rate ticker, stages
// them through pkg/stage, and publishes them from a single dedicated
// goroutine, per spec.md's single-producer discipline. It also exposes
// /healthz and /metrics for the process, wiring internal/health and
// internal/metrics the way a real sensor-pipeline producer would.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srediag/frame-ring/internal/diag"
	"github.com/srediag/frame-ring/internal/health"
	"github.com/srediag/frame-ring/internal/metrics"
	"github.com/srediag/frame-ring/pkg/ring"
	"github.com/srediag/frame-ring/pkg/stage"
)

func main() {
	var (
		name        = flag.String("name", "/frame-ring-demo", "backing object name")
		capacity    = flag.Uint64("capacity", 1024, "ring capacity in frames")
		frameBytes  = flag.Uint64("frame-bytes", 256, "bytes per frame")
		channels    = flag.Int("channels", 4, "channels per frame, for the synthetic signal")
		rateHz      = flag.Float64("rate-hz", 100, "frames published per second")
		metricsAddr = flag.String("metrics-addr", ":9090", "listen address for /healthz and /metrics")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wantBytes := ring.TotalBytes(*capacity, *frameBytes)
	if err := diag.CheckAvailableMemory(ctx, wantBytes); err != nil {
		log.Fatalf("ring-produce: preflight sizing check failed: %v", err)
	}

	inst := metrics.New(nil, nil, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	r, err := ring.Create(ctx, *name, *capacity, *frameBytes, ring.Config{Instrumentation: inst})
	if err != nil {
		log.Fatalf("ring-produce: create %q: %v", *name, err)
	}
	defer r.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", health.NewHandler(r, *rateHz*0.5, time.Second))
	server := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("ring-produce: metrics server: %v", err)
		}
	}()

	st := stage.NewStage(int(*capacity))
	go generateFrames(ctx, st, int(*frameBytes), *channels, *rateHz)

	publishLoop(ctx, r, st, int(*frameBytes))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

// generateFrames writes a synthetic sine wave at rateHz frames per second,
// until ctx is canceled. Every float32 slot of a frame is filled, with
// slots assigned to channels round-robin; all of a channel's slots in one
// frame carry the same sine value for that tick.
func generateFrames(ctx context.Context, st *stage.Stage, frameBytes, channels int, rateHz float64) {
	period := time.Duration(float64(time.Second) / rateHz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	samplesPerFrame := frameBytes / 4
	if samplesPerFrame == 0 {
		samplesPerFrame = 1
	}

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			st.Close()
			return
		case <-ticker.C:
			frame := make([]byte, frameBytes)
			for s := 0; s < samplesPerFrame; s++ {
				ch := s % maxInt(channels, 1)
				v := float32(math.Sin(2 * math.Pi * float64(tick) / rateHz * float64(ch+1)))
				putFloat32(frame, s*4, v)
			}
			if err := st.Offer(frame); err != nil {
				log.Printf("ring-produce: stage offer dropped a frame: %v", err)
			}
			tick++
		}
	}
}

// publishLoop drains staged frames and is the ring's sole publisher
// goroutine, satisfying spec.md's single-writer requirement.
func publishLoop(ctx context.Context, r *ring.Ring, st *stage.Stage, frameBytes int) {
	for {
		batch := st.Drain(64)
		if batch == nil {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		buf := make([]byte, 0, len(batch)*frameBytes)
		for _, f := range batch {
			buf = append(buf, f...)
		}
		r.Publish(ctx, buf, len(batch))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func putFloat32(b []byte, off int, v float32) {
	bits := math.Float32bits(v)
	b[off] = byte(bits)
	b[off+1] = byte(bits >> 8)
	b[off+2] = byte(bits >> 16)
	b[off+3] = byte(bits >> 24)
}
