package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/keepalive/internal/metrics"
	"github.com/angeloszaimis/keepalive/internal/pinger"
)

var tickTime = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func success(latencyMs int64) pinger.TickResult {
	return pinger.TickResult{
		Timestamp:  tickTime,
		InWindow:   true,
		Attempted:  true,
		Success:    true,
		StatusCode: 200,
		LatencyMs:  latencyMs,
	}
}

func failure(msg string) pinger.TickResult {
	return pinger.TickResult{
		Timestamp:    tickTime.Add(time.Minute),
		InWindow:     true,
		Attempted:    true,
		ErrorMessage: msg,
	}
}

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("Record", func() {
		It("should count successful probes", func() {
			m.Record(success(100))
			m.Record(success(200))

			snap := m.Snapshot()
			Expect(snap.Ticks).To(Equal(int64(2)))
			Expect(snap.Attempted).To(Equal(int64(2)))
			Expect(snap.Succeeded).To(Equal(int64(2)))
			Expect(snap.AvgLatency).To(Equal(150 * time.Millisecond))
			Expect(snap.StatusCodes[200]).To(Equal(int64(2)))
			Expect(snap.LastSuccess).NotTo(BeNil())
			Expect(*snap.LastSuccess).To(Equal(tickTime))
		})

		It("should count failures and keep the last error", func() {
			m.Record(failure("connection refused"))

			snap := m.Snapshot()
			Expect(snap.Failed).To(Equal(int64(1)))
			Expect(snap.LastError).To(Equal("connection refused"))
			Expect(snap.LastFailure).NotTo(BeNil())
			Expect(snap.StatusCodes).To(BeEmpty())
		})

		It("should count ticks outside the window without latency", func() {
			m.Record(pinger.TickResult{Timestamp: tickTime})

			snap := m.Snapshot()
			Expect(snap.Ticks).To(Equal(int64(1)))
			Expect(snap.OutsideWindow).To(Equal(int64(1)))
			Expect(snap.Attempted).To(BeZero())
			Expect(snap.AvgLatency).To(BeZero())
		})

		It("should count overlap skips", func() {
			m.Record(pinger.TickResult{Timestamp: tickTime, InWindow: true, Skipped: pinger.SkipOverlap})

			snap := m.Snapshot()
			Expect(snap.SkippedOverlap).To(Equal(int64(1)))
			Expect(snap.Attempted).To(BeZero())
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.Record(success(int64(i)))
			}

			snap := m.Snapshot()
			Expect(snap.P50Latency).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(snap.P95Latency).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(snap.P99Latency).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored latencies to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.Record(success(int64(i)))
			}

			snap := m.Snapshot()
			Expect(snap.AvgLatency).To(BeNumerically(">", 500*time.Millisecond))
			Expect(snap.Succeeded).To(Equal(int64(1500)))
		})
	})

	Describe("Snapshot", func() {
		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot().Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot()
			Expect(snap.Ticks).To(BeZero())
			Expect(snap.LastSuccess).To(BeNil())
			Expect(snap.LastFailure).To(BeNil())
		})

		It("should return independent snapshot", func() {
			m.Record(success(10))
			snap1 := m.Snapshot()
			m.Record(success(10))
			snap2 := m.Snapshot()

			Expect(snap1.Ticks).To(Equal(int64(1)))
			Expect(snap2.Ticks).To(Equal(int64(2)))
			Expect(snap1.StatusCodes[200]).To(Equal(int64(1)))
		})
	})
})
