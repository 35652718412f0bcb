package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStoreSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StoreSpan(context.Background(), "get", "beans")
	EndWithError(span, errors.New("boom"))
	span.End()

	_, ok := StoreSpan(context.Background(), "list", "brews")
	EndWithError(ok, nil)
	ok.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "store.get", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("store.collection", "beans"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)

	assert.Equal(t, "store.list", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}
