package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"healthbridge/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, "grants.authorize", tracer.String("via", "STANDARD"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool("allowed", true))
	span.AddEvent("checked", tracer.Int64("count", 1))
	span.End(errors.New("boom"))
}

func TestOTelTracer_WithNoopProvider(t *testing.T) {
	tr := tracer.NewOTel(tracer.WithOTelTracer(noop.NewTracerProvider().Tracer("test")))
	_, span := tr.Start(context.Background(), "grants.create", tracer.String("kind", "standard"), tracer.Int64("n", 2))
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool("ok", true))
	span.End(nil)
}

func TestHashHealthUID(t *testing.T) {
	assert.Empty(t, tracer.HashHealthUID(""))
	h := tracer.HashHealthUID("HB-AAAA1111")
	assert.Len(t, h, 16)
	assert.Equal(t, h, tracer.HashHealthUID("HB-AAAA1111"))
	assert.NotEqual(t, h, tracer.HashHealthUID("HB-AAAA1112"))
}
