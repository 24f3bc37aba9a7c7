package fee

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	blockchainApp "github.com/fd1az/pool-arbitrage/business/blockchain/app"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/business/pricing/infra/uniswap"
	"github.com/fd1az/pool-arbitrage/internal/apm"
)

var _ app.FeeEstimator = (*Quoter)(nil)

type quoterMetrics struct {
	simulations metric.Int64Counter
	failures    metric.Int64Counter
	fee         metric.Float64Histogram
}

// Quoter simulates the swap with QuoterV2.quoteExactInputSingle via
// eth_call. Nothing is signed or sent.
type Quoter struct {
	caller   blockchainApp.ContractCaller
	quoter   common.Address
	deltaBps float64

	tracer  trace.Tracer
	metrics *quoterMetrics
}

// NewQuoter creates a quoter-based estimator. deltaBps sets the price limit
// below the current sqrt price.
func NewQuoter(caller blockchainApp.ContractCaller, quoter common.Address, deltaBps float64) (*Quoter, error) {
	q := &Quoter{
		caller:   caller,
		quoter:   quoter,
		deltaBps: deltaBps,
		tracer:   otel.Tracer(tracerName),
	}

	if err := q.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return q, nil
}

func (q *Quoter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	q.metrics = &quoterMetrics{}

	q.metrics.simulations, err = meter.Int64Counter(
		"fee_simulations_total",
		metric.WithDescription("Total quoter fee simulations"),
		metric.WithUnit("{simulation}"),
	)
	if err != nil {
		return err
	}

	q.metrics.failures, err = meter.Int64Counter(
		"fee_simulation_failures_total",
		metric.WithDescription("Quoter fee simulations that failed"),
		metric.WithUnit("{simulation}"),
	)
	if err != nil {
		return err
	}

	q.metrics.fee, err = meter.Float64Histogram(
		"fee_estimated_fraction",
		metric.WithDescription("Estimated effective fee fraction"),
	)
	return err
}

// Estimate simulates a token0 -> token1 swap of amountIn.
func (q *Quoter) Estimate(ctx context.Context, quote pricingDomain.PoolQuote, amountIn *big.Int) (float64, error) {
	ctx, span := apm.Start(ctx, q.tracer, "fee.quoter_estimate",
		attribute.String("pool", quote.Pool().Hex()),
		attribute.Int64("fee_tier", int64(quote.FeeTier())),
	)
	q.metrics.simulations.Add(ctx, 1)

	fee, err := q.estimate(ctx, quote, amountIn)
	if err != nil {
		q.metrics.failures.Add(ctx, 1)
	} else {
		q.metrics.fee.Record(ctx, fee)
		span.SetAttributes(attribute.Float64("fee", fee))
	}
	span.End(err)
	return fee, err
}

func (q *Quoter) estimate(ctx context.Context, quote pricingDomain.PoolQuote, amountIn *big.Int) (float64, error) {
	if quote.IsZero() {
		return 0, failed(fmt.Errorf("empty quote"))
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return 0, failed(fmt.Errorf("amount in must be positive"))
	}

	res, err := uniswap.CallQuoter(ctx, q.caller, q.quoter, uniswap.QuoteExactInputSingleParams{
		TokenIn:           quote.Token0(),
		TokenOut:          quote.Token1(),
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(quote.FeeTier())),
		SqrtPriceLimitX96: pricingDomain.SqrtPriceLimit(quote.SqrtPriceX96(), q.deltaBps),
	})
	if err != nil {
		return 0, failed(err, "simulation reverted")
	}

	return FeeFromOutput(amountIn, res.AmountOut, quote.RawPrice())
}
