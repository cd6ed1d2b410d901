package bserve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWithoutMiddlewarePanics(t *testing.T) {
	require.PanicsWithValue(t, "bserve: requestDep not found in context; is the middleware configured?", func() {
		Log(t.Context())
	})
}

func TestLogCarriesTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tp := sdktrace.NewTracerProvider()

	handler := withTracing(tp, NewPropagator(), "test")(
		withRequestDep(&requestDep{logger: zap.New(core)})(
			http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				Log(r.Context()).Info("hello")
				Span(r.Context()).AddEvent("said hello")
			})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Len(t, fields["trace_id"], 32)
	require.Len(t, fields["span_id"], 16)
}

func TestLogWithoutSpanHasNoTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := withRequestDep(&requestDep{logger: zap.New(core)})(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			Log(r.Context()).Info("hello")
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	require.NotContains(t, logs.All()[0].ContextMap(), "trace_id")
}
