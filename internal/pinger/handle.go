package pinger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	errNilConfig           = errors.New("configuration is nil")
	errNonPositiveInterval = errors.New("interval must be positive")
)

// Handle controls one running schedule.
type Handle struct {
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
	inFlight atomic.Bool

	// mutex orders result delivery against Stop.
	mutex   sync.RWMutex
	stopped bool

	// deliver serializes sink calls from the scheduler and probe goroutines.
	deliver sync.Mutex
}

func newHandle(cancel context.CancelFunc) *Handle {
	return &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Stop cancels the schedule and waits for the scheduler to exit. No tick
// fires and no result is delivered after Stop returns. A probe that is
// still in flight finishes in the background and its result is discarded.
// Calling Stop more than once is a no-op.
func (h *Handle) Stop() {
	h.once.Do(func() {
		h.markStopped()
		h.cancel()
		<-h.done
	})
}

func (h *Handle) markStopped() {
	h.mutex.Lock()
	h.stopped = true
	h.mutex.Unlock()
}

// Done is closed once the scheduler has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// InFlight reports whether a probe is currently running.
func (h *Handle) InFlight() bool {
	return h.inFlight.Load()
}

// report hands res to every sink unless the handle was stopped. Only one
// result is delivered at a time.
func (h *Handle) report(sinks []Sink, res TickResult) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.stopped {
		return false
	}

	h.deliver.Lock()
	defer h.deliver.Unlock()

	for _, sink := range sinks {
		sink.Record(res)
	}

	return true
}

// Stop is a convenience for h.Stop that tolerates a nil handle.
func Stop(h *Handle) {
	if h == nil {
		return
	}
	h.Stop()
}
