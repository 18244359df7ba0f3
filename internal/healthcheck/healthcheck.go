package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultTimeout = 30 * time.Second

// drainLimit caps how much of a response body is read before closing it.
const drainLimit = 64 << 10

var ErrUnhealthyStatus = errors.New("unhealthy status")

// UnhealthyStatusError is returned when a response arrived but the status
// predicate rejected it.
type UnhealthyStatusError struct {
	StatusCode int
}

func (e *UnhealthyStatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnhealthyStatus, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *UnhealthyStatusError) Is(target error) bool {
	return target == ErrUnhealthyStatus
}

// StatusPredicate decides whether a response status counts as healthy.
type StatusPredicate func(statusCode int) bool

// AnyResponse treats every received response as healthy: the target woke up.
func AnyResponse(int) bool { return true }

// Status2xx only accepts 2xx responses.
func Status2xx(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// PredicateFor maps a config name ("any" or "2xx") to a predicate.
func PredicateFor(name string) (StatusPredicate, error) {
	switch name {
	case "", "any":
		return AnyResponse, nil
	case "2xx":
		return Status2xx, nil
	default:
		return nil, fmt.Errorf("unknown healthy status predicate %q", name)
	}
}

// Outcome is the result of one probe.
type Outcome struct {
	StatusCode int
	Latency    time.Duration
	Err        error
}

// Healthy reports whether the probe succeeded.
func (o Outcome) Healthy() bool {
	return o.Err == nil
}

// Prober sends GET requests to a single endpoint.
type Prober struct {
	client    *http.Client
	endpoint  *url.URL
	timeout   time.Duration
	headers   map[string]string
	userAgent string
	healthy   StatusPredicate
}

type Option func(*Prober)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(p *Prober) {
		p.headers = headers
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// WithStatusPredicate changes what counts as a healthy response.
func WithStatusPredicate(pred StatusPredicate) Option {
	return func(p *Prober) {
		if pred != nil {
			p.healthy = pred
		}
	}
}

// NewProber creates a Prober for endpoint.
func NewProber(endpoint *url.URL, opts ...Option) *Prober {
	p := &Prober{
		client:   &http.Client{},
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		healthy:  AnyResponse,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Endpoint returns the probed URL.
func (p *Prober) Endpoint() *url.URL {
	return p.endpoint
}

// Probe sends exactly one GET and never retries. Transport errors, timeouts
// and rejected statuses are all reported through Outcome.Err.
func (p *Prober) Probe(ctx context.Context) Outcome {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint.String(), nil)
	if err != nil {
		return Outcome{Err: err}
	}

	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	start := time.Now()
	res, err := p.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", p.timeout, err)
		}
		return Outcome{Latency: latency, Err: err}
	}
	defer res.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, drainLimit))

	outcome := Outcome{StatusCode: res.StatusCode, Latency: latency}
	if !p.healthy(res.StatusCode) {
		outcome.Err = &UnhealthyStatusError{StatusCode: res.StatusCode}
	}

	return outcome
}
