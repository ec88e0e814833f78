package observability

import (
	"context"
	"errors"
	"time"
)

// Config is the telemetry section of the application config.
type Config struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs global tracer and meter providers when cfg.Enabled is set
// and returns REST metrics bound to the installed meter. With telemetry
// disabled it returns nil metrics and a no-op shutdown.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion string) (*RESTMetrics, ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}

	tc := DefaultTracerConfig(serviceName)
	tc.ServiceVersion = serviceVersion
	mc := DefaultMeterConfig(serviceName)
	mc.ServiceVersion = serviceVersion
	if cfg.Endpoint != "" {
		tc.Endpoint, mc.Endpoint = cfg.Endpoint, cfg.Endpoint
	}
	tc.Insecure, mc.Insecure = cfg.Insecure, cfg.Insecure
	if cfg.SampleRate > 0 {
		tc.SampleRate = cfg.SampleRate
	}
	if cfg.Interval > 0 {
		mc.Interval = cfg.Interval
	}

	tp, err := InitTracer(ctx, tc)
	if err != nil {
		return nil, noop, err
	}
	mp, err := InitMeter(ctx, mc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, noop, err
	}

	metrics, err := NewRESTMetrics(mp.Meter(TracerName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, noop, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return metrics, shutdown, nil
}
