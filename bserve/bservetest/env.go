package bservetest

import (
	"testing"
	"time"

	"github.com/advdv/bconnect"
)

// Env provides a chainable builder for setting [bserve.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bserve.BaseEnvironment] env vars to sensible test defaults.
//
// Defaults:
//   - BCONNECT_ADDR: "127.0.0.1:0", a free port is picked when the app starts
//   - BCONNECT_SERVICE_NAME: "test"
//   - BCONNECT_READINESS_PATH: "/healthz"
//   - BCONNECT_OTEL_EXPORTER: "none"
//   - BCONNECT_MODE: "development"
//
// Use the returned [Env] to override individual values:
//
//	bservetest.SetBaseEnv(t).ServiceName("orders").Mode(bconnect.ModeProduction)
func SetBaseEnv(t testing.TB) *Env {
	t.Helper()
	t.Setenv("BCONNECT_ADDR", "127.0.0.1:0")
	t.Setenv("BCONNECT_SERVICE_NAME", "test")
	t.Setenv("BCONNECT_READINESS_PATH", "/healthz")
	t.Setenv("BCONNECT_OTEL_EXPORTER", "none")
	t.Setenv("BCONNECT_MODE", string(bconnect.ModeDevelopment))
	return &Env{t: t}
}

// Addr overrides BCONNECT_ADDR.
func (e *Env) Addr(addr string) *Env {
	e.t.Helper()
	e.t.Setenv("BCONNECT_ADDR", addr)
	return e
}

// ServiceName overrides BCONNECT_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BCONNECT_SERVICE_NAME", name)
	return e
}

// ReadinessPath overrides BCONNECT_READINESS_PATH.
func (e *Env) ReadinessPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BCONNECT_READINESS_PATH", path)
	return e
}

// Mode overrides BCONNECT_MODE.
func (e *Env) Mode(m bconnect.Mode) *Env {
	e.t.Helper()
	e.t.Setenv("BCONNECT_MODE", string(m))
	return e
}

// SettleTimeout overrides BCONNECT_SETTLE_TIMEOUT.
func (e *Env) SettleTimeout(d time.Duration) *Env {
	e.t.Helper()
	e.t.Setenv("BCONNECT_SETTLE_TIMEOUT", d.String())
	return e
}
