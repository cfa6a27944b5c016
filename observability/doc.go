// Package observability provides OpenTelemetry tracing and metrics for
// fixture runs.
//
// Setup wires both providers from configuration and returns a single
// shutdown function:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, "seedkit", version.Version)
//	defer shutdown(ctx)
//
// The fixture engine opens spans named fixtures.load, fixtures.execute and
// fixtures.purge through StartOperation, and records counters through
// FixtureMetrics. Both work against the global no-op providers when
// observability is disabled.
package observability
