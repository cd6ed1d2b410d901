package bconnect

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/advdv/bconnect"

// Dispatcher walks a stack once per request. The pending error is the only state of the walk, it is
// threaded from one entry to the next and never shared between requests.
type Dispatcher struct {
	logs    Logger
	invoker invoker
	tracer  trace.Tracer
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	return newDispatcher(newConfig(opts...))
}

func newDispatcher(cfg config) *Dispatcher {
	return &Dispatcher{
		logs:    cfg.logs,
		invoker: invoker{logs: cfg.logs, settleTimeout: cfg.settleTimeout},
		tracer:  cfg.tracerProv.Tracer(tracerName),
	}
}

// Dispatch runs the matching entries of stack in registration order and returns the error that is left
// pending after the last one, or nil. Every matching entry is considered: a failure only changes which
// of the following entries are eligible. ctx becomes the context of r.
//
// Each entry sees r with its own span in the context. A request that an entry replaced, for example with
// r.Request = r.WithContext(...), is carried over to the following entries once the entry settled in
// time.
func (d *Dispatcher) Dispatch(ctx context.Context, stack *Stack, w ResponseWriter, r *Request) error {
	r.Request = r.WithContext(ctx)

	var pending error
	for _, e := range stack.Matching(r.Pathname) {
		pending = d.step(e, pending, w, r)
	}

	return pending
}

func (d *Dispatcher) step(e Entry, pending error, w ResponseWriter, r *Request) (outcome error) {
	if pending != nil && e.Kind != KindError {
		return pending
	}

	defer func() {
		if p := recover(); p != nil {
			outcome = recoverFault(p)
		}
	}()

	d.logs.LogInvoke(e.Kind, e.Path, r.Pathname, pending)

	parent := r.Context()
	spanCtx, span := d.tracer.Start(parent, "bconnect.entry", trace.WithAttributes(
		attribute.String("bconnect.kind", e.Kind.String()),
		attribute.String("bconnect.path", e.Path),
		attribute.Bool("bconnect.pending_error", pending != nil),
	))
	defer func() { endSpan(span, outcome) }()

	stepReq := r.Request.WithContext(spanCtx)
	req := &Request{Request: stepReq, Pathname: r.Pathname, Query: r.Query}

	// An Error-kind entry also runs when nothing failed, it then receives a nil error.
	if e.Kind == KindError {
		outcome = d.invoker.invoke(e.Path, w, func(w ResponseWriter, next Next) error {
			return e.ErrorHandler.ServeConnectError(pending, w, req, next)
		})
	} else {
		outcome = d.invoker.invoke(e.Path, w, func(w ResponseWriter, next Next) error {
			return e.Handler.ServeConnect(w, req, next)
		})
	}

	if !errors.Is(outcome, ErrSettleTimeout) && req.Request != stepReq {
		r.Request = req.Request.WithContext(trace.ContextWithSpan(req.Context(), trace.SpanFromContext(parent)))
	}

	return outcome
}

func endSpan(span trace.Span, outcome error) {
	if outcome != nil {
		span.RecordError(outcome)
		span.SetStatus(codes.Error, outcome.Error())
	}

	span.End()
}
