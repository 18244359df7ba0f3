package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/angeloszaimis/keepalive/internal/pinger"
)

const maxLatencySamples = 1000

type Metrics struct {
	mutex          sync.RWMutex
	ticks          int64
	attempted      int64
	succeeded      int64
	failed         int64
	outsideWindow  int64
	skippedOverlap int64
	statusCodes    map[int]int64
	latencies      []time.Duration
	lastSuccess    time.Time
	lastFailure    time.Time
	lastError      string
	startTime      time.Time
}

type Snapshot struct {
	Uptime         time.Duration `json:"uptime"`
	Ticks          int64         `json:"ticks"`
	Attempted      int64         `json:"attempted"`
	Succeeded      int64         `json:"succeeded"`
	Failed         int64         `json:"failed"`
	OutsideWindow  int64         `json:"outside_window"`
	SkippedOverlap int64         `json:"skipped_overlap"`
	AvgLatency     time.Duration `json:"avg_latency"`
	P50Latency     time.Duration `json:"p50_latency"`
	P95Latency     time.Duration `json:"p95_latency"`
	P99Latency     time.Duration `json:"p99_latency"`
	StatusCodes    map[int]int64 `json:"status_codes"`
	LastSuccess    *time.Time    `json:"last_success,omitempty"`
	LastFailure    *time.Time    `json:"last_failure,omitempty"`
	LastError      string        `json:"last_error,omitempty"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		statusCodes: make(map[int]int64),
		startTime:   time.Now(),
	}
}

// Record folds one tick result into the aggregates.
func (m *Metrics) Record(res pinger.TickResult) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ticks++

	switch {
	case res.Skipped == pinger.SkipOverlap:
		m.skippedOverlap++
		return
	case !res.InWindow:
		m.outsideWindow++
		return
	}

	m.attempted++

	if res.StatusCode != 0 {
		m.statusCodes[res.StatusCode]++
	}

	m.latencies = append(m.latencies, time.Duration(res.LatencyMs)*time.Millisecond)
	if len(m.latencies) > maxLatencySamples {
		m.latencies = m.latencies[1:]
	}

	if res.Success {
		m.succeeded++
		m.lastSuccess = res.Timestamp
	} else {
		m.failed++
		m.lastFailure = res.Timestamp
		m.lastError = res.ErrorMessage
	}
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:         time.Since(m.startTime),
		Ticks:          m.ticks,
		Attempted:      m.attempted,
		Succeeded:      m.succeeded,
		Failed:         m.failed,
		OutsideWindow:  m.outsideWindow,
		SkippedOverlap: m.skippedOverlap,
		StatusCodes:    make(map[int]int64, len(m.statusCodes)),
		LastError:      m.lastError,
	}

	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}

	if !m.lastSuccess.IsZero() {
		t := m.lastSuccess
		snap.LastSuccess = &t
	}
	if !m.lastFailure.IsZero() {
		t := m.lastFailure
		snap.LastFailure = &t
	}

	if len(m.latencies) > 0 {
		sorted := make([]time.Duration, len(m.latencies))
		copy(sorted, m.latencies)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.AvgLatency = average(sorted)
		snap.P50Latency = percentile(sorted, 0.50)
		snap.P95Latency = percentile(sorted, 0.95)
		snap.P99Latency = percentile(sorted, 0.99)
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
