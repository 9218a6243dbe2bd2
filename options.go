package ringbuf

// OptionName sets the buffer name used as the label on metrics and traces.
type OptionName struct {
	Name string
}

// OptionPrometheusMetrics enables collection of Prometheus metrics for the
// buffer (calls latency summary and occupied cells gauge).
type OptionPrometheusMetrics struct {
	EnablePrometheusMetrics bool
}

// OptionOpenTelemetry enables OpenTelemetry tracing spans for the Ctx
// operation variants.
type OptionOpenTelemetry struct {
	EnableTracing bool
}
