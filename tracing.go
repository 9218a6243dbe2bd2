package ringbuf

import (
	"context"

	otelattr "go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func (b *Buffer) startTracingSpan(ctx context.Context, spanName string, attributes ...otelattr.KeyValue) oteltrace.Span {
	_, span := b.otelTracer.Start(
		ctx,
		spanName,
		oteltrace.WithAttributes(b.otelCommonTraceAttrs...),
		oteltrace.WithAttributes(attributes...),
	)

	return span
}
