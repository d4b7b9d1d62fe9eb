// Package health exposes liveness/readiness checks for a long-running
// frame-ring producer or consumer daemon, built on
// github.com/heptiolabs/healthcheck. This is demo-command plumbing only:
// spec.md §1 keeps process supervision out of the ring's core, so nothing
// in pkg/ring imports this package.
package health

import (
	"fmt"
	"time"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/frame-ring/pkg/ring"
)

// NewHandler builds a healthcheck.Handler wired with a liveness check
// (the ring is still mapped) and, if minRate > 0, a readiness check (the
// producer is publishing at least minRate frames per second, measured
// over sampleWindow).
func NewHandler(r *ring.Ring, minRate float64, sampleWindow time.Duration) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("ring-mapped", LivenessCheck(r))
	if minRate > 0 {
		h.AddReadinessCheck("ring-publish-rate", ReadinessCheck(r, minRate, sampleWindow))
	}
	return h
}

// LivenessCheck fails once the ring's region has been torn down
// (spec.md's "Empty" state).
func LivenessCheck(r *ring.Ring) healthcheck.Check {
	return func() error {
		if r.Closed() {
			return fmt.Errorf("ring is closed")
		}
		return nil
	}
}

// ReadinessCheck samples write_idx twice sampleWindow apart and fails if
// the observed publish rate falls below minRate frames/second. This is a
// demo-command concern, not a ring invariant: the ring itself never fails
// a slow producer, per spec.md's non-goals.
func ReadinessCheck(r *ring.Ring, minRate float64, sampleWindow time.Duration) healthcheck.Check {
	return func() error {
		before := r.WriteIndex()
		time.Sleep(sampleWindow)
		after := r.WriteIndex()

		rate := float64(after-before) / sampleWindow.Seconds()
		if rate < minRate {
			return fmt.Errorf("publish rate %.2f frames/s below minimum %.2f", rate, minRate)
		}
		return nil
	}
}
