package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("squad-lineup/internal/usecase")

// startUsecaseSpan only opens a span under an existing one.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func sessionAttr(id string) attribute.KeyValue {
	return attribute.String("lineup.session_id", id)
}

func matchAttr(id int64) attribute.KeyValue {
	return attribute.Int64("lineup.match_id", id)
}

func formationAttr(code string) attribute.KeyValue {
	return attribute.String("lineup.formation", code)
}
