// Package ethereum provides Ethereum blockchain infrastructure adapters.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/circuitbreaker"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/pool-arbitrage/business/blockchain/infra/ethereum"
	meterName  = "github.com/fd1az/pool-arbitrage/business/blockchain/infra/ethereum"
)

var _ app.ContractCaller = (*ContractCaller)(nil)

// CallBackend is the subset of ethclient.Client used for read calls.
type CallBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type callerMetrics struct {
	calls   metric.Int64Counter
	errors  metric.Int64Counter
	latency metric.Float64Histogram
}

// ContractCaller runs eth_call through the shared rate limiter and a circuit
// breaker, with a span per call. It never retries.
type ContractCaller struct {
	backend CallBackend
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	timeout time.Duration
	logger  logger.LoggerInterface

	tracer  trace.Tracer
	metrics *callerMetrics
}

// NewContractCaller creates a caller. timeout <= 0 means calls only end
// with the caller's context.
func NewContractCaller(backend CallBackend, limiter *ratelimit.Limiter, timeout time.Duration, log logger.LoggerInterface) (*ContractCaller, error) {
	c := &ContractCaller{
		backend: backend,
		limiter: limiter,
		timeout: timeout,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("eth-call")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return c, nil
}

func (c *ContractCaller) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &callerMetrics{}

	c.metrics.calls, err = meter.Int64Counter(
		"eth_contract_calls_total",
		metric.WithDescription("Total eth_call requests by method"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	c.metrics.errors, err = meter.Int64Counter(
		"eth_contract_call_errors_total",
		metric.WithDescription("Failed eth_call requests by method"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.latency, err = meter.Float64Histogram(
		"eth_contract_call_latency_ms",
		metric.WithDescription("eth_call latency"),
		metric.WithUnit("ms"),
	)
	return err
}

// Call executes a read-only call against the latest block. Any failure is
// QueryFailed with context "lookup=<op> to=<address>"; breaker and limiter
// errors stay reachable through the cause chain.
func (c *ContractCaller) Call(ctx context.Context, op string, to common.Address, data []byte) ([]byte, error) {
	ctx, span := apm.Start(ctx, c.tracer, "eth.call",
		attribute.String("method", op),
		attribute.String("to", to.Hex()),
	)

	opAttr := metric.WithAttributes(attribute.String("method", op))
	c.metrics.calls.Add(ctx, 1, opAttr)

	out, err := c.call(ctx, to, data)
	if err != nil {
		c.metrics.errors.Add(ctx, 1, opAttr)
		err = apperror.New(apperror.CodeQueryFailed,
			apperror.WithCause(err),
			apperror.WithContextf("lookup=%s to=%s", op, to.Hex()))
	}
	span.End(err)
	return out, err
}

func (c *ContractCaller) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.cb.Execute(func() ([]byte, error) {
		return c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	})
	c.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()))
	return out, err
}

// Healthy reports whether the breaker currently admits calls.
func (c *ContractCaller) Healthy() bool {
	return c.cb.Healthy()
}

// BreakerState returns the breaker state name for health output.
func (c *ContractCaller) BreakerState() string {
	return c.cb.State().String()
}
