package apm

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// Span wraps an OTEL span so adapters can end it with their result error.
type Span struct {
	span trace.Span
}

// Start opens a span on tracer with the given attributes.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

// SetAttributes adds attributes after the span started.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

// End closes the span. A non-nil err is recorded along with its apperror
// code so traces can be filtered by failure kind.
func (s *Span) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		if apperror.IsAppError(err) {
			s.span.SetAttributes(attribute.String("error.code", string(apperror.GetCode(err))))
		}
	}
	s.span.End()
}

// TraceID returns the span's trace id, or "" when not sampled.
func (s *Span) TraceID() string {
	sc := s.span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
