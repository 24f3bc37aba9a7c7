package apm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("x-honeycomb-team=abc, api-key = k ,broken,=novalue")
	assert.Equal(t, map[string]string{"x-honeycomb-team": "abc", "api-key": "k"}, got)
	assert.Empty(t, ParseHeaders(""))
}

func TestNewTraceProvider_Disabled(t *testing.T) {
	tp, err := NewTraceProvider(context.Background(), Config{}, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, tp.Stop())
}

func TestNewTraceProvider_UnknownExporter(t *testing.T) {
	_, err := NewTraceProvider(context.Background(), Config{Enabled: true, Exporter: "jaeger"}, logger.NewNop())
	require.Error(t, err)
}

func TestSpan_EndRecordsErrorCode(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tracer := tp.Tracer("test")

	_, span := Start(context.Background(), tracer, "slot0", attribute.String("pool", "0xabc"))
	assert.NotEmpty(t, span.TraceID())
	span.End(apperror.New(apperror.CodeStalePrice))

	_, ok := Start(context.Background(), tracer, "decimals")
	ok.End(nil)

	ended := rec.Ended()
	require.Len(t, ended, 2)

	failed := ended[0]
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Attributes(), attribute.String("error.code", string(apperror.CodeStalePrice)))
	assert.Contains(t, failed.Attributes(), attribute.String("pool", "0xabc"))

	assert.Equal(t, codes.Unset, ended[1].Status().Code)
}

func TestSpan_PlainErrorHasNoCode(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("test")

	_, span := Start(context.Background(), tracer, "call")
	span.End(errors.New("boom"))

	for _, kv := range rec.Ended()[0].Attributes() {
		assert.NotEqual(t, attribute.Key("error.code"), kv.Key)
	}
}
