package telemetry

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestInitTracerProvider_WithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracerProvider(context.Background(), "viacep-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, shutdown(context.Background())) })

	ctx, span := otel.Tracer("test").Start(context.Background(), "lookup")
	defer span.End()
	assert.True(t, span.SpanContext().IsValid(), "spans are recorded even without an exporter")

	header := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(header))
	assert.NotEmpty(t, header.Get("traceparent"))
}

func TestInitTracerProvider_WithEndpoint(t *testing.T) {
	// The gRPC client connects lazily, so no collector is needed here.
	shutdown, err := InitTracerProvider(context.Background(), "viacep-test", "127.0.0.1:4317")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
