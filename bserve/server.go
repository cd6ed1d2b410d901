package bserve

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/bconnect"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 2 * time.Minute
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	App        *bconnect.App
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewConnectApp creates the middleware application, configured from the environment. Dispatch events
// are logged through zap and every invoked entry gets a span.
func NewConnectApp(env Environment, logger *zap.Logger, tp trace.TracerProvider) *bconnect.App {
	return bconnect.New(
		bconnect.WithLogger(NewConnectLogger(logger)),
		bconnect.WithMode(env.mode()),
		bconnect.WithSettleTimeout(env.settleTimeout()),
		bconnect.WithTracerProvider(tp),
	)
}

// NewServer creates an HTTP server that serves the app behind tracing, the readiness endpoint and the
// request-scoped dependencies.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	d := &requestDep{
		logger: params.Logger,
	}

	// The readiness endpoint is answered before the middleware stack, and is not traced to avoid noisy
	// traces from probes.
	healthPath := params.Env.readinessCheckPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	handler := bconnect.Chain(params.App,
		withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath),
		withHealth(healthPath, healthHandler),
		withRequestDep(d),
	)

	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

func withHealth(path string, health http.HandlerFunc) bconnect.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == path {
				health(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, env Environment, app *bconnect.App, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return app.ListenWith(server, env.addr(), func() {
				logger.Info("server listening", zap.Stringer("addr", app.Address()))
			})
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")

			ctx, cancel := context.WithTimeout(ctx, env.shutdownTimeout())
			defer cancel()

			if err := app.Close(ctx); err != nil {
				return errors.Wrap(err, "failed to stop server")
			}

			return nil
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
