// Package observability wires OpenTelemetry tracing and metrics for REST
// calls made by pusherrest.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("pusherrest"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("pusherrest"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewRESTMetrics(observability.Meter("pusherrest"))
//	metrics.RecordRequestEnd(ctx, "GET", "async", 200, duration)
//
// Setup combines both from a Config and returns a single shutdown function.
package observability
