package pinger

import "time"

// WithInterval lets tests tick faster than whole minutes.
func WithInterval(d time.Duration) Option {
	return withInterval(d)
}
