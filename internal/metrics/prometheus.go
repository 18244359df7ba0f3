package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angeloszaimis/keepalive/internal/pinger"
)

// Prometheus mirrors tick results into Prometheus collectors on its own registry.
type Prometheus struct {
	registry    *prometheus.Registry
	ticks       *prometheus.CounterVec
	latency     prometheus.Histogram
	targetUp    prometheus.Gauge
	lastSuccess prometheus.Gauge

	// targetUp is only exported once a probe has run.
	targetUpOnce sync.Once
}

func NewPrometheus() *Prometheus {
	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keepalive_ticks_total",
		Help: "Ticks by outcome: success, failure, outside_window, skipped_overlap.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "keepalive_probe_latency_seconds",
		Help:    "Latency of keep-alive probes that reached the network.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
	})
	targetUp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "keepalive_target_up",
		Help: "1 if the last probe succeeded, 0 if it failed.",
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "keepalive_last_success_timestamp_seconds",
		Help: "Unix time of the last successful probe.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(ticks, latency, lastSuccess)

	return &Prometheus{
		registry:    registry,
		ticks:       ticks,
		latency:     latency,
		targetUp:    targetUp,
		lastSuccess: lastSuccess,
	}
}

func (p *Prometheus) Record(res pinger.TickResult) {
	switch {
	case res.Skipped == pinger.SkipOverlap:
		p.ticks.WithLabelValues("skipped_overlap").Inc()
	case !res.InWindow:
		p.ticks.WithLabelValues("outside_window").Inc()
	case res.Success:
		p.ticks.WithLabelValues("success").Inc()
		p.latency.Observe(float64(res.LatencyMs) / 1000)
		p.setTargetUp(1)
		p.lastSuccess.Set(float64(res.Timestamp.Unix()))
	default:
		p.ticks.WithLabelValues("failure").Inc()
		p.latency.Observe(float64(res.LatencyMs) / 1000)
		p.setTargetUp(0)
	}
}

func (p *Prometheus) setTargetUp(v float64) {
	p.targetUp.Set(v)
	p.targetUpOnce.Do(func() {
		p.registry.MustRegister(p.targetUp)
	})
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
