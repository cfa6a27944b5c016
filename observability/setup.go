package observability

import (
	"context"

	"go.uber.org/multierr"
)

// ShutdownFunc flushes and stops the providers created by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup initializes the tracer and meter providers when cfg.Enabled is set.
// With observability disabled it returns a no-op shutdown and the global
// no-op providers stay in place.
func Setup(ctx context.Context, cfg Config, service, version string) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg.tracerConfig(service, version))
	if err != nil {
		return nil, err
	}
	mcfg := cfg.meterConfig(service, version)
	mp, err := InitMeter(ctx, &mcfg)
	if err != nil {
		return nil, multierr.Append(err, tp.Shutdown(ctx))
	}

	return func(ctx context.Context) error {
		return multierr.Combine(mp.Shutdown(ctx), tp.Shutdown(ctx))
	}, nil
}
