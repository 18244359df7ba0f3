package metrics

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/angeloszaimis/keepalive/internal/pinger"
)

type Collector struct {
	eventCh    chan pinger.TickResult
	metrics    *Metrics
	prometheus *Prometheus
	dropped    atomic.Int64
	logger     *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh:    make(chan pinger.TickResult, bufferSize),
		metrics:    NewMetrics(),
		prometheus: NewPrometheus(),
		logger:     logger,
	}
}

// Record implements pinger.Sink. It never blocks; results are dropped when
// the buffer is full.
func (c *Collector) Record(res pinger.TickResult) {
	select {
	case c.eventCh <- res:
	default:
		c.dropped.Add(1)
	}
}

// Dropped returns how many results were lost to a full buffer.
func (c *Collector) Dropped() int64 {
	return c.dropped.Load()
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case res := <-c.eventCh:
			c.process(res)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) process(res pinger.TickResult) {
	c.prometheus.Record(res)
	c.metrics.Record(res)
}

func (c *Collector) drain() {
	for {
		select {
		case res := <-c.eventCh:
			c.process(res)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

func (c *Collector) Prometheus() *Prometheus {
	return c.prometheus
}
