package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("squad-lineup/internal/interfaces/httpapi")

// startSpan opens a child span for handler-level names only. Helpers and
// untraced routes such as /healthz get the parent (or a no-op) span back.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// startRequestSpan is startSpan tagged with the editor path parameters of r.
func startRequestSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return startSpan(r.Context(), name, requestSpanAttributes(r)...)
}

func requestSpanAttributes(r *http.Request) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if id := strings.TrimSpace(r.PathValue("sessionID")); id != "" {
		attrs = append(attrs, attribute.String("lineup.session_id", id))
	}
	if slot := strings.TrimSpace(r.PathValue("slotID")); slot != "" {
		attrs = append(attrs, attribute.String("lineup.slot_id", slot))
	}
	return attrs
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}
