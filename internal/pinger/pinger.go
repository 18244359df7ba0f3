package pinger

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/keepalive/config"
	"github.com/angeloszaimis/keepalive/internal/healthcheck"
	"github.com/angeloszaimis/keepalive/internal/target"
	"github.com/angeloszaimis/keepalive/internal/window"
)

// Pinger holds the immutable schedule and probe settings.
type Pinger struct {
	logger     *slog.Logger
	prober     *healthcheck.Prober
	target     *target.Target
	window     window.Window
	location   *time.Location
	interval   time.Duration
	runOnStart bool
	now        func() time.Time
	sinks      []Sink
	httpClient *http.Client
}

type Option func(*Pinger)

// WithClock overrides the wall clock used for window decisions.
func WithClock(now func() time.Time) Option {
	return func(p *Pinger) {
		if now != nil {
			p.now = now
		}
	}
}

// WithHTTPClient sets the client used for probes.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pinger) {
		p.httpClient = client
	}
}

// WithSink adds a consumer of tick results next to the log sink.
func WithSink(sink Sink) Option {
	return func(p *Pinger) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

func withInterval(d time.Duration) Option {
	return func(p *Pinger) {
		p.interval = d
	}
}

// New validates cfg and builds a Pinger. Any problem with the configuration
// is returned as *config.ConfigurationError.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pinger, error) {
	if cfg == nil {
		return nil, &config.ConfigurationError{Err: errNilConfig}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := cfg.EndpointURL()
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	win, err := cfg.ActiveWindow()
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	if logger == nil {
		logger = slog.Default()
	}

	healthy, err := healthcheck.PredicateFor(cfg.Target.HealthyStatus)
	if err != nil {
		return nil, &config.ConfigurationError{Err: err}
	}

	p := &Pinger{
		logger:     logger,
		target:     target.New(endpoint),
		window:     win,
		location:   loc,
		interval:   cfg.Interval(),
		runOnStart: cfg.Schedule.RunOnStart,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.interval <= 0 {
		return nil, &config.ConfigurationError{Err: errNonPositiveInterval}
	}

	p.prober = healthcheck.NewProber(endpoint,
		healthcheck.WithHTTPClient(p.httpClient),
		healthcheck.WithTimeout(cfg.RequestTimeout()),
		healthcheck.WithHeaders(cfg.Target.Headers),
		healthcheck.WithUserAgent(cfg.Target.UserAgent),
		healthcheck.WithStatusPredicate(healthy),
	)

	p.sinks = append([]Sink{NewLogSink(logger)}, p.sinks...)

	return p, nil
}

// Start validates cfg, begins ticking in the background and returns the
// handle that stops it.
func Start(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Handle, error) {
	p, err := New(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	return p.Start(ctx), nil
}

// Target exposes the observed state of the pinged endpoint.
func (p *Pinger) Target() *target.Target {
	return p.target
}

// Start schedules ticks every interval. With run-on-start enabled the first
// tick fires immediately, otherwise one interval after Start.
// Cancelling ctx has the same effect as Stop.
func (p *Pinger) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)

	p.logger.Info("Keep-alive pinger started",
		slog.String("endpoint", p.target.URL().String()),
		slog.Duration("interval", p.interval),
		slog.String("active_window", p.window.String()),
		slog.String("timezone", p.location.String()),
		slog.Bool("run_on_start", p.runOnStart))

	go p.run(ctx, h)

	return h
}

func (p *Pinger) run(ctx context.Context, h *Handle) {
	defer close(h.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if p.runOnStart {
		p.tick(ctx, h)
	}

	for {
		select {
		case <-ctx.Done():
			h.markStopped()
			p.logger.Info("Keep-alive pinger stopped",
				slog.String("endpoint", p.target.URL().String()))
			return

		case <-ticker.C:
			// Both cases may be ready at once; cancellation wins.
			if ctx.Err() != nil {
				continue
			}
			p.tick(ctx, h)
		}
	}
}

func (p *Pinger) tick(ctx context.Context, h *Handle) {
	now := p.now().In(p.location)

	res := TickResult{
		ID:        uuid.NewString(),
		Timestamp: now,
		InWindow:  p.window.Contains(now),
	}

	if !res.InWindow {
		h.report(p.sinks, res)
		return
	}

	if !h.inFlight.CompareAndSwap(false, true) {
		res.Skipped = SkipOverlap
		h.report(p.sinks, res)
		return
	}

	res.Attempted = true

	// The probe outlives Stop so an in-flight request can finish; its
	// result is then dropped by report.
	probeCtx := context.WithoutCancel(ctx)

	go func() {
		defer h.inFlight.Store(false)

		outcome := p.prober.Probe(probeCtx)

		res.StatusCode = outcome.StatusCode
		res.LatencyMs = outcome.Latency.Milliseconds()
		res.Success = outcome.Healthy()
		if outcome.Err != nil {
			res.ErrorMessage = outcome.Err.Error()
		}

		if h.report(p.sinks, res) {
			p.observe(res, outcome.Latency)
		}
	}()
}

func (p *Pinger) observe(res TickResult, latency time.Duration) {
	p.target.RecordLatency(latency)

	if !p.target.SetHealthy(res.Success, res.Timestamp) {
		return
	}

	if res.Success {
		p.logger.Info("Target is back up",
			slog.String("endpoint", p.target.URL().String()))
	} else {
		p.logger.Warn("Target is down",
			slog.String("endpoint", p.target.URL().String()),
			slog.String("error", res.ErrorMessage))
	}
}
