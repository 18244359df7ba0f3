// Package pinger keeps a hosted backend from idling by sending it one health
// check per interval, but only during a daily active window.
//
// Ticks are strictly serialized: when a probe is still in flight at the next
// interval boundary, that tick is skipped and reported as an overlap instead
// of starting a second request. Every tick produces a TickResult that is handed
// to the registered sinks and then discarded.
//
// Usage:
//
//	h, err := pinger.Start(ctx, cfg, logger)
//	if err != nil {
//	    // *config.ConfigurationError
//	}
//	defer h.Stop()
package pinger
