package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/observability"
)

// metrics implements the observability hook interfaces on top of
// prometheus collectors. RegisterMetrics installs one instance as the
// process-wide hooks, so the pipeline packages stay free of any
// prometheus dependency.
type metrics struct {
	stageTotal      *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	segmentsSkipped prometheus.Counter
	cacheOps        *prometheus.CounterVec
	requests        *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavedrom_stage_total",
				Help: "Render and convert runs by outcome.",
			},
			[]string{"stage", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "wavedrom_stage_duration_seconds",
				Help: "Duration of render and convert runs.",
			},
			[]string{"stage"},
		),
		segmentsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wavedrom_segments_skipped_total",
				Help: "Segments dropped by the significance filter.",
			},
		),
		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavedrom_cache_ops_total",
				Help: "Artifact cache operations by kind.",
			},
			[]string{"op"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wavedrom_http_requests_total",
				Help: "HTTP requests by status code.",
			},
			[]string{"code"},
		),
	}
	reg.MustRegister(m.stageTotal, m.stageDuration, m.segmentsSkipped, m.cacheOps, m.requests)
	return m
}

// EmitterHooks.

func (m *metrics) OnRenderStart(context.Context, string, int) {}

func (m *metrics) OnRenderComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stageTotal.WithLabelValues("render", outcome(err)).Inc()
	m.stageDuration.WithLabelValues("render").Observe(d.Seconds())
}

func (m *metrics) OnConvertStart(context.Context, string, int) {}

func (m *metrics) OnConvertComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	m.stageTotal.WithLabelValues("convert", outcome(err)).Inc()
	m.stageDuration.WithLabelValues("convert").Observe(d.Seconds())
}

func (m *metrics) OnSegmentSkipped(context.Context, string, int) {
	m.segmentsSkipped.Inc()
}

// CacheHooks.

func (m *metrics) OnCacheHit(context.Context, string) {
	m.cacheOps.WithLabelValues("hit").Inc()
}

func (m *metrics) OnCacheMiss(context.Context, string) {
	m.cacheOps.WithLabelValues("miss").Inc()
}

func (m *metrics) OnCacheSet(context.Context, string, int) {
	m.cacheOps.WithLabelValues("set").Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.EmitterHooks = (*metrics)(nil)
	_ observability.CacheHooks   = (*metrics)(nil)
)
