package bconnect

import (
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Mode selects how much the default terminal reveals about unhandled errors.
type Mode string

const (
	// ModeDevelopment renders the full error, including its stack trace.
	ModeDevelopment Mode = "development"
	// ModeProduction renders only the status text.
	ModeProduction Mode = "production"
)

const defaultReadHeaderTimeout = 10 * time.Second

type config struct {
	logs          Logger
	mode          Mode
	settleTimeout time.Duration
	tracerProv    trace.TracerProvider
}

func newConfig(opts ...Option) config {
	cfg := config{
		logs:       NewStdLogger(log.Default()),
		mode:       ModeDevelopment,
		tracerProv: noop.NewTracerProvider(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Option configures an [App] or a [Dispatcher].
type Option func(*config)

// WithLogger sets the logger, by default faults are printed with the standard library logger.
func WithLogger(logs Logger) Option {
	return func(c *config) {
		if logs != nil {
			c.logs = logs
		}
	}
}

// WithMode sets how the default terminal renders unhandled errors.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithSettleTimeout bounds how long a single step may take to settle. Steps that take longer settle with
// a 503 error wrapping [ErrSettleTimeout]. With a timeout, handlers run on their own goroutine so a
// handler that blocks is bounded as well. A handler that missed the deadline keeps running but is cut
// off from the response: its writes fail with http.ErrHandlerTimeout. Zero, the default, waits forever:
// a handler that never calls next and never returns a result stalls its request.
func WithSettleTimeout(d time.Duration) Option {
	return func(c *config) { c.settleTimeout = d }
}

// WithTracerProvider creates a span for every invoked entry.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProv = tp
		}
	}
}
