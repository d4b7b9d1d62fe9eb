// Package metrics instruments the frame ring with Prometheus counters and
// OpenTelemetry tracing, mirroring the {Meter, Tracer} pair the teacher's
// pkg/shm.Config declared but never wired up.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation is optional and nil-safe: every method on a nil
// *Instrumentation is a no-op, so pkg/ring can hold one unconditionally
// without a caller having to opt in.
type Instrumentation struct {
	Meter      metric.Meter
	Tracer     trace.Tracer
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	published   *prometheus.CounterVec
	writeIndex  *prometheus.GaugeVec
	windowWraps *prometheus.CounterVec
	framesCtr   metric.Int64Counter
}

// New builds an Instrumentation, registering its Prometheus collectors
// against reg (pass prometheus.DefaultRegisterer for the global registry,
// or nil to skip Prometheus and keep only the OTel side). gatherer backs
// Snapshot; pass prometheus.DefaultGatherer alongside
// prometheus.DefaultRegisterer, or nil if Snapshot is never called.
func New(meter metric.Meter, tracer trace.Tracer, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Instrumentation {
	inst := &Instrumentation{Meter: meter, Tracer: tracer, Registerer: reg, Gatherer: gatherer}

	inst.published = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frame_ring_published_frames_total",
		Help: "Total frames handed to Ring.Publish, by ring name.",
	}, []string{"ring"})
	inst.writeIndex = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "frame_ring_write_index",
		Help: "Most recently observed write_idx, by ring name.",
	}, []string{"ring"})
	inst.windowWraps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "frame_ring_view_window_wraps_total",
		Help: "Total ViewWindow calls rejected with WindowWraps, by ring name.",
	}, []string{"ring"})

	if reg != nil {
		reg.MustRegister(inst.published, inst.writeIndex, inst.windowWraps)
	}

	if meter != nil {
		if ctr, err := meter.Int64Counter(
			"ring.frames.published",
			metric.WithDescription("Total frames published to a frame ring."),
		); err == nil {
			inst.framesCtr = ctr
		}
	}

	return inst
}

// RecordPublish reports a completed Publish call: nFrames frames written,
// write_idx now at newIdx.
func (i *Instrumentation) RecordPublish(ctx context.Context, ring string, nFrames int, newIdx uint64) {
	if i == nil {
		return
	}
	if i.published != nil {
		i.published.WithLabelValues(ring).Add(float64(nFrames))
	}
	if i.writeIndex != nil {
		i.writeIndex.WithLabelValues(ring).Set(float64(newIdx))
	}
	if i.framesCtr != nil {
		i.framesCtr.Add(ctx, int64(nFrames), metric.WithAttributes(attribute.String("ring", ring)))
	}
}

// RecordWindowWraps counts a rejected ViewWindow call.
func (i *Instrumentation) RecordWindowWraps(ring string) {
	if i == nil || i.windowWraps == nil {
		return
	}
	i.windowWraps.WithLabelValues(ring).Inc()
}

// Snapshot gathers the current Prometheus metric families in their raw
// protobuf shape, for a diagnostics log line or debug endpoint that needs
// structured access to a metric's samples rather than the text exposition
// format /metrics serves.
func (i *Instrumentation) Snapshot() ([]*dto.MetricFamily, error) {
	if i == nil || i.Gatherer == nil {
		return nil, nil
	}
	return i.Gatherer.Gather()
}

// StartPublishSpan opens the "ring.publish" span used to bound a single
// Publish call, returning a no-op end func when tracing is disabled.
func (i *Instrumentation) StartPublishSpan(ctx context.Context, ring string) (context.Context, func()) {
	if i == nil || i.Tracer == nil {
		return ctx, func() {}
	}
	ctx, span := i.Tracer.Start(ctx, "ring.publish", trace.WithAttributes(attribute.String("ring", ring)))
	return ctx, func() { span.End() }
}
