package pinger

import "time"

const SkipOverlap = "overlap"

// TickResult describes one tick. It is not retained after the sinks have seen it.
type TickResult struct {
	ID           string
	Timestamp    time.Time
	InWindow     bool
	Attempted    bool
	Skipped      string
	Success      bool
	StatusCode   int
	LatencyMs    int64
	ErrorMessage string
}

// Outcome is a short label for logs and metrics.
func (r TickResult) Outcome() string {
	switch {
	case r.Skipped != "":
		return "skipped: " + r.Skipped
	case !r.InWindow:
		return "outside window"
	case r.Success:
		return "success"
	default:
		return "failure"
	}
}
