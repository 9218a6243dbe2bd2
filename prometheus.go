package ringbuf

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promStatsCallsLatency = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: "ringbuf",
			Subsystem: "buffer",
			Name:      "calls_latency_seconds",
			Help:      "Latency of ring buffer calls",

			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			MaxAge:     3 * time.Minute,
			AgeBuckets: 3,
		},
		[]string{"buffer", "cmd"},
	)
	promStatsCellsOccupied = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ringbuf",
			Subsystem: "buffer",
			Name:      "cells_occupied",
			Help:      "Occupied cells derived from the head and tail indexes",
		},
		[]string{"buffer"},
	)
)

type ringbufPrometheusMetrics struct {
	callsLatency  prometheus.ObserverVec
	cellsOccupied prometheus.Gauge
}

func newPrometheusMetrics(name string) *ringbufPrometheusMetrics {
	return &ringbufPrometheusMetrics{
		callsLatency:  promStatsCallsLatency.MustCurryWith(prometheus.Labels{"buffer": name}),
		cellsOccupied: promStatsCellsOccupied.WithLabelValues(name),
	}
}

func (m *ringbufPrometheusMetrics) observeLatency(cmd string, start time.Time) {
	m.callsLatency.With(prometheus.Labels{"cmd": cmd}).Observe(time.Since(start).Seconds())
}
