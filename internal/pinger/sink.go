package pinger

import (
	"log/slog"
	"time"
)

// Sink consumes tick results. Results come from both the scheduler and the
// probe goroutine, but Record calls are serialized so a sink never sees two
// at once. Record must not block or call Stop.
type Sink interface {
	Record(TickResult)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(TickResult)

func (f SinkFunc) Record(r TickResult) {
	f(r)
}

type logSink struct {
	logger *slog.Logger
}

// NewLogSink writes one line per tick.
func NewLogSink(logger *slog.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Record(r TickResult) {
	attrs := []any{
		slog.String("tick_id", r.ID),
		slog.String("timestamp", r.Timestamp.Format(time.RFC3339)),
		slog.Bool("in_window", r.InWindow),
		slog.Bool("attempted", r.Attempted),
		slog.String("outcome", r.Outcome()),
	}

	switch {
	case r.Skipped != "":
		s.logger.Warn("Tick skipped", attrs...)
	case !r.Attempted:
		s.logger.Debug("Tick outside active window", attrs...)
	case r.Success:
		s.logger.Info("Keep-alive ping succeeded",
			append(attrs,
				slog.Int("status", r.StatusCode),
				slog.Int64("latency_ms", r.LatencyMs))...)
	default:
		s.logger.Warn("Keep-alive ping failed",
			append(attrs,
				slog.Int("status", r.StatusCode),
				slog.Int64("latency_ms", r.LatencyMs),
				slog.String("error", r.ErrorMessage))...)
	}
}
