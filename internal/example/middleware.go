// Package example implements example middleware in an outside package.
package example

import (
	"context"

	"github.com/advdv/bconnect"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ctxKey type scopes middlware values.
type ctxKey string

// RequestIDHeader carries the request id, it is reused when the client sends one.
const RequestIDHeader = "X-Request-Id"

// Logger provides an example for middleware that adds a logger to the request context. The logger
// carries the method, pathname and request id.
func Logger(logs *zap.Logger) bconnect.Handler {
	return bconnect.HandlerFunc(func(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)

		logs := logs.With(
			zap.String("method", r.Method),
			zap.String("pathname", r.Pathname),
			zap.String("request_id", id))

		r.Request = r.WithContext(context.WithValue(r.Context(), ctxKey("zap"), logs))

		return nil
	})
}

// Log returns the logger added by [Logger], or a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	v, ok := ctx.Value(ctxKey("zap")).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	return v
}
