package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/angeloszaimis/keepalive/internal/metrics"
	"github.com/angeloszaimis/keepalive/internal/pinger"
)

type statusResponse struct {
	Status       string     `json:"status"`
	Endpoint     string     `json:"endpoint"`
	TargetHealth string     `json:"target_health"`
	LastChecked  *time.Time `json:"last_checked,omitempty"`
	EWMALatency  int64      `json:"ewma_latency_ms"`
	InFlight     bool       `json:"in_flight"`
}

func setupRouter(p *pinger.Pinger, handle *pinger.Handle, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", statusHandler(p, handle))
	mux.HandleFunc("GET /metrics", collector.Handler())
	mux.Handle("GET /metrics/prometheus", collector.PrometheusHandler())

	return mux
}

func statusHandler(p *pinger.Pinger, handle *pinger.Handle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := p.Target()

		resp := statusResponse{
			Status:       "running",
			Endpoint:     t.URL().String(),
			TargetHealth: t.Health().String(),
			EWMALatency:  t.EWMALatency().Milliseconds(),
			InFlight:     handle.InFlight(),
		}
		if last := t.LastChecked(); !last.IsZero() {
			resp.LastChecked = &last
		}

		code := http.StatusOK
		select {
		case <-handle.Done():
			resp.Status = "stopped"
			code = http.StatusServiceUnavailable
		default:
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
