package bserve

import (
	"github.com/advdv/bconnect"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// BCONNECT_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build(zap.Fields(zap.String("service", env.serviceName())))
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogRegister(kind bconnect.Kind, path string) {
	l.Logger.Debug("register middleware", zap.Stringer("kind", kind), zap.String("path", path))
}

func (l zapLogger) LogInvoke(kind bconnect.Kind, path, pathname string, pending error) {
	if ce := l.Logger.Check(zapcore.DebugLevel, "invoke middleware"); ce != nil {
		ce.Write(
			zap.Stringer("kind", kind),
			zap.String("path", path),
			zap.String("pathname", pathname),
			zap.NamedError("pending", pending))
	}
}

func (l zapLogger) LogLateSettle(path string, err error) {
	l.Logger.Debug("dropping signal of already settled middleware", zap.String("path", path), zap.Error(err))
}

func (l zapLogger) LogUnhandledError(err error) {
	l.Logger.Error("unhandled error", zap.Error(err))
}

func (l zapLogger) LogTerminalSkipped(err error) {
	l.Logger.Warn("response already sent, error not rendered", zap.Error(err))
}

func (l zapLogger) LogListenerError(err error) {
	l.Logger.Error("listener error", zap.Error(err))
}

// NewConnectLogger adapts l so the dispatcher reports through zap.
func NewConnectLogger(l *zap.Logger) bconnect.Logger {
	return zapLogger{l.Named("bconnect")}
}
