package target

import (
	"net/url"
	"sync"
	"time"
)

// Health is the last observed state of the target.
type Health int

const (
	HealthUnknown Health = iota
	HealthUp
	HealthDown
)

func (h Health) String() string {
	switch h {
	case HealthUp:
		return "up"
	case HealthDown:
		return "down"
	default:
		return "unknown"
	}
}

// Target represents the pinged endpoint with its health status and
// latency tracking.
type Target struct {
	url         *url.URL
	mutex       sync.Mutex
	health      Health
	lastChecked time.Time
	ewmaLatency time.Duration
	hasEWMA     bool
}

const ewmaAlpha = 0.2

// New creates a Target for the given URL. Its health starts unknown.
func New(u *url.URL) *Target {
	return &Target{url: u}
}

// URL returns the endpoint URL.
func (t *Target) URL() *url.URL {
	return t.url
}

// Health returns the last observed health.
func (t *Target) Health() Health {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.health
}

// LastChecked returns when the last probe result was recorded.
func (t *Target) LastChecked() time.Time {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.lastChecked
}

// SetHealthy records a probe outcome.
// Returns true if the health changed from a previously known state.
func (t *Target) SetHealthy(healthy bool, at time.Time) (changed bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	next := HealthDown
	if healthy {
		next = HealthUp
	}

	prev := t.health
	t.health = next
	t.lastChecked = at

	return prev != HealthUnknown && prev != next
}

// RecordLatency updates the exponentially weighted moving average (EWMA)
// probe latency.
func (t *Target) RecordLatency(latency time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.hasEWMA {
		t.ewmaLatency = latency
		t.hasEWMA = true
		return
	}
	//ewma = (1 - α) * ewma + α * latest
	t.ewmaLatency = time.Duration((1-ewmaAlpha)*float64(t.ewmaLatency) + ewmaAlpha*float64(latency))
}

// EWMALatency returns the smoothed probe latency, or 0 before the first probe.
func (t *Target) EWMALatency() time.Duration {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.hasEWMA {
		return 0
	}

	return t.ewmaLatency
}
