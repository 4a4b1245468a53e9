package stream

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "voxelfield"
	metricsSubsystem = "stream"
)

// metrics groups the streamer's Prometheus collectors.
type metrics struct {
	realized  prometheus.Counter
	evicted   prometheus.Counter
	remeshed  prometheus.Counter
	cancelled prometheus.Counter
	failed    prometheus.Counter

	queueDepth prometheus.Gauge
	resident   prometheus.Gauge

	buildSeconds prometheus.Histogram
}

func newMetrics() *metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &metrics{
		realized:   counter("chunks_realized_total", "Chunks populated and meshed."),
		evicted:    counter("chunks_evicted_total", "Realized chunks evicted outside the active set."),
		remeshed:   counter("chunks_remeshed_total", "Mesh rebuilds of already realized chunks."),
		cancelled:  counter("requests_cancelled_total", "Queued requests dropped before realization."),
		failed:     counter("realize_failures_total", "Realizations that failed during population."),
		queueDepth: gauge("queue_depth", "Pending realization requests."),
		resident:   gauge("resident_chunks", "Realized chunks currently held."),
		buildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "mesh_build_seconds",
			Help:      "Time spent building one chunk mesh.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.realized, m.evicted, m.remeshed, m.cancelled, m.failed,
		m.queueDepth, m.resident, m.buildSeconds,
	}
}

// register adds every collector to reg, or none of them: on failure the
// collectors already added are unregistered again. A nil registerer leaves
// them unregistered.
func (m *metrics) register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}
	cs := m.collectors()
	for i, c := range cs {
		if err := reg.Register(c); err != nil {
			for _, done := range cs[:i] {
				reg.Unregister(done)
			}
			return fmt.Errorf("registering stream metrics: %w", err)
		}
	}
	return nil
}
