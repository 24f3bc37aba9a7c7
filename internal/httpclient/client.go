// Package httpclient builds the instrumented HTTP client used for JSON-RPC traffic.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// Default connection pool settings
	defaultDialKeepAlive         = 10 * time.Second
	defaultRequestTimeout        = 10 * time.Second
	defaultMaxIdleConns          = 0
	defaultMaxConnsPerHost       = 5
	defaultIdleConnTimeout       = 2 * time.Minute
	defaultExpectContinueTimeout = 100 * time.Millisecond

	metricRequestCounter = "http_client_requests_total"
)

// Options configures New.
type Options struct {
	// ProviderName tags metrics and spans, e.g. the network name.
	ProviderName   string
	RequestTimeout time.Duration
	MeterProvider  metric.MeterProvider
	// Transport replaces the pooled default transport. Mostly for tests.
	Transport http.RoundTripper
}

// New returns an *http.Client whose transport is traced with otelhttp and
// counts every request by provider and outcome.
func New(opts Options) (*http.Client, error) {
	if opts.ProviderName == "" {
		opts.ProviderName = "default"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(
		"instrumented_http_client",
		metric.WithInstrumentationAttributes(attribute.String("provider", opts.ProviderName)),
	)
	counter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxConnsPerHost:       defaultMaxConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
		}
	}

	counted := &countingTransport{
		next:     base,
		counter:  counter,
		provider: attribute.String("provider", opts.ProviderName),
	}

	return &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: otelhttp.NewTransport(
			counted,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}, nil
}

type countingTransport struct {
	next     http.RoundTripper
	counter  metric.Int64Counter
	provider attribute.KeyValue
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	success := err == nil && resp.StatusCode < http.StatusBadRequest
	t.counter.Add(req.Context(), 1, metric.WithAttributes(
		t.provider,
		attribute.Bool("success", success),
	))
	return resp, err
}
