package bserve

import (
	"time"

	"github.com/advdv/bconnect"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	addr() string
	serviceName() string
	readinessCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	mode() bconnect.Mode
	settleTimeout() time.Duration
	shutdownTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every service reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Addr               string        `env:"BCONNECT_ADDR,required"`
	ServiceName        string        `env:"BCONNECT_SERVICE_NAME,required"`
	ReadinessCheckPath string        `env:"BCONNECT_READINESS_PATH" envDefault:"/healthz"`
	LogLevel           zapcore.Level `env:"BCONNECT_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"BCONNECT_OTEL_EXPORTER" envDefault:"none"`
	Mode               bconnect.Mode `env:"BCONNECT_MODE" envDefault:"development"`
	// SettleTimeout bounds how long a single middleware step may take, zero waits forever.
	SettleTimeout   time.Duration `env:"BCONNECT_SETTLE_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"BCONNECT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (e BaseEnvironment) addr() string                   { return e.Addr }
func (e BaseEnvironment) serviceName() string            { return e.ServiceName }
func (e BaseEnvironment) readinessCheckPath() string     { return e.ReadinessCheckPath }
func (e BaseEnvironment) logLevel() zapcore.Level        { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string           { return e.OtelExporter }
func (e BaseEnvironment) mode() bconnect.Mode            { return e.Mode }
func (e BaseEnvironment) settleTimeout() time.Duration   { return e.SettleTimeout }
func (e BaseEnvironment) shutdownTimeout() time.Duration { return e.ShutdownTimeout }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if err := validateEnv(e); err != nil {
			return e, err
		}

		return e, nil
	}
}

func validateEnv(e Environment) error {
	switch e.mode() {
	case bconnect.ModeDevelopment, bconnect.ModeProduction:
	default:
		return errors.Newf("unsupported BCONNECT_MODE: %q (supported: development, production)", e.mode())
	}

	if e.settleTimeout() < 0 {
		return errors.Newf("BCONNECT_SETTLE_TIMEOUT must not be negative, got %s", e.settleTimeout())
	}

	return nil
}
