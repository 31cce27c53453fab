// Package observability wires OpenTelemetry into bridge clients.
//
// Providers are initialised once per process:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("catalog"), log)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("catalog"), log)
//	defer mp.Shutdown(ctx)
//
// Interceptors then carry the trace context onto the wire and record one
// measurement per response:
//
//	metrics, err := observability.NewMetrics(observability.Meter("catalog"))
//	client, err := bridge.New(cfg,
//		bridge.WithRequestInterceptors(observability.Propagation(nil)),
//		bridge.WithResponseInterceptors(metrics.Interceptor(), observability.Annotate()),
//	)
package observability
