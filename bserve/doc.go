// Package bserve provides a batteries-included way to run a bconnect application as a service.
//
// # Overview
//
// bserve handles the boilerplate around a [bconnect.App]: environment parsing, structured logging,
// OpenTelemetry tracing, a readiness endpoint and graceful shutdown. A complete service is created in
// a single call:
//
//	bserve.New[Env](func(app *bconnect.App, h *Handlers) {
//	    app.UseAt("/items", bconnect.HandlerFunc(h.ListItems))
//	    app.UseError(bconnect.ErrorHandlerFunc(h.RenderError))
//	},
//	    bserve.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bserve.BaseEnvironment
//	    QuotesURL string `env:"QUOTES_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable                  | Required | Default     | Description                                      |
//	|---------------------------|----------|-------------|--------------------------------------------------|
//	| BCONNECT_ADDR             | Yes      | -           | "host:port", or a unix socket path               |
//	| BCONNECT_SERVICE_NAME     | Yes      | -           | Service name for logging and tracing             |
//	| BCONNECT_READINESS_PATH   | No       | /healthz    | Path answered with 200 before the stack runs     |
//	| BCONNECT_LOG_LEVEL        | No       | info        | Log level (debug, info, warn, error)             |
//	| BCONNECT_OTEL_EXPORTER    | No       | none        | Trace exporter: "none" or "stdout"               |
//	| BCONNECT_MODE             | No       | development | "production" hides error details from responses  |
//	| BCONNECT_SETTLE_TIMEOUT   | No       | 0s          | Upper bound for a single middleware step         |
//	| BCONNECT_SHUTDOWN_TIMEOUT | No       | 10s         | Time given to in-flight requests on shutdown     |
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler
// constructors via fx:
//   - [Runtime.Env] returns the typed environment configuration
//   - [Runtime.App] returns the middleware application
//   - [Runtime.NewRequest] builds traced outbound requests
//
// # Request Context
//
// Handlers get request-scoped values from the request context:
//
//	func (h *Handlers) ListItems(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
//	    bserve.Log(r.Context()).Info("listing items")
//	    bserve.Span(r.Context()).AddEvent("listing")
//	    // ...
//	}
//
// [Log] returns a zap logger that carries the trace and span id of the request. The dispatcher itself
// reports through the same logger, named "bconnect".
//
// # Testing
//
// Package bservetest builds the same dependency graph on top of fxtest.
package bserve
