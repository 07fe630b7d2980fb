package observability

import "go.opentelemetry.io/otel/attribute"

func lineupBackendAttribute(backend string) attribute.KeyValue {
	return attribute.String("lineup.backend", backend)
}
