package bconnect

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogRegister(kind Kind, path string)
	LogInvoke(kind Kind, path, pathname string, pending error)
	LogLateSettle(path string, err error)
	LogUnhandledError(err error)
	LogTerminalSkipped(err error)
	LogListenerError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogRegister(Kind, string)              {}
func (l stdLogger) LogInvoke(Kind, string, string, error) {}
func (l stdLogger) LogLateSettle(string, error)           {}

func (l stdLogger) LogUnhandledError(err error) {
	l.Logger.Printf("bconnect: unhandled error: %s", err)
}

func (l stdLogger) LogTerminalSkipped(err error) {
	l.Logger.Printf("bconnect: response already sent, dropping: %v", err)
}

func (l stdLogger) LogListenerError(err error) {
	l.Logger.Printf("bconnect: listener error: %s", err)
}

// NewStdLogger only reports faults, the per-step events are too chatty for the standard logger.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type nopLogger struct{}

func (nopLogger) LogRegister(Kind, string)              {}
func (nopLogger) LogInvoke(Kind, string, string, error) {}
func (nopLogger) LogLateSettle(string, error)           {}
func (nopLogger) LogUnhandledError(error)               {}
func (nopLogger) LogTerminalSkipped(error)              {}
func (nopLogger) LogListenerError(error)                {}

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

type TestLogger struct {
	tb testing.TB

	NumLogRegister        int64
	NumLogInvoke          int64
	NumLogLateSettle      int64
	NumLogUnhandledError  int64
	NumLogTerminalSkipped int64
	NumLogListenerError   int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogRegister(kind Kind, path string) {
	atomic.AddInt64(&l.NumLogRegister, 1)
	l.tb.Logf("bconnect: register middleware: %s %s", kind, path)
}

func (l *TestLogger) LogInvoke(kind Kind, path, pathname string, pending error) {
	atomic.AddInt64(&l.NumLogInvoke, 1)
	l.tb.Logf("bconnect: invoke %s handler: path=%s, pathname=%s, pending=%v", kind, path, pathname, pending)
}

func (l *TestLogger) LogLateSettle(path string, err error) {
	atomic.AddInt64(&l.NumLogLateSettle, 1)
	l.tb.Logf("bconnect: late settle of %s dropped: %v", path, err)
}

func (l *TestLogger) LogUnhandledError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledError, 1)
	l.tb.Logf("bconnect: unhandled error: %s", err)
}

func (l *TestLogger) LogTerminalSkipped(err error) {
	atomic.AddInt64(&l.NumLogTerminalSkipped, 1)
	l.tb.Logf("bconnect: response already sent, dropping: %v", err)
}

func (l *TestLogger) LogListenerError(err error) {
	atomic.AddInt64(&l.NumLogListenerError, 1)
	l.tb.Logf("bconnect: listener error: %s", err)
}

var _ Logger = &TestLogger{}
