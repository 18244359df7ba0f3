// Package metrics aggregates keep-alive tick results.
//
// It uses a channel-based event pipeline so recording a tick never blocks the
// scheduler. The collector tracks:
//   - Tick counts by outcome (success, failure, outside window, overlap skip)
//   - Probe latency average and percentiles (P50, P95, P99) over the last 1000 probes
//   - HTTP status code distribution
//   - Last success and last failure
//
// Aggregates are served as JSON and, through a private Prometheus registry,
// in the Prometheus text format.
//
// Example usage:
//
//	collector := metrics.NewCollector(100, logger)
//	collector.Start(ctx)
//
//	h, err := pinger.Start(ctx, cfg, logger, pinger.WithSink(collector))
//
//	mux.HandleFunc("/metrics", collector.Handler())
//	mux.Handle("/metrics/prometheus", collector.PrometheusHandler())
//
// Unsent events are drained on shutdown.
package metrics
