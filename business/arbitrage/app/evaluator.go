package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/asset"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

const (
	tracerName = "arbitrage"
	meterName  = "arbitrage"
)

type evaluatorMetrics struct {
	evaluations metric.Int64Counter
	profitable  metric.Int64Counter
	failures    metric.Int64Counter
	latency     metric.Float64Histogram
}

// Evaluator prices one pair across both fee tiers and decides whether
// either direction is profitable.
type Evaluator struct {
	cfg      domain.TradeConfig
	quotes   QuoteSource
	fees     FeeEstimator
	executor Executor
	logger   logger.LoggerInterface
	now      func() time.Time

	tracer  trace.Tracer
	metrics *evaluatorMetrics
}

// NewEvaluator creates an Evaluator. executor may be nil.
func NewEvaluator(cfg domain.TradeConfig, quotes QuoteSource, fees FeeEstimator, executor Executor, log logger.LoggerInterface) (*Evaluator, error) {
	e := &Evaluator{
		cfg:      cfg,
		quotes:   quotes,
		fees:     fees,
		executor: executor,
		logger:   log,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}

	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return e, nil
}

func (e *Evaluator) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &evaluatorMetrics{}

	e.metrics.evaluations, err = meter.Int64Counter(
		"arbitrage_evaluations_total",
		metric.WithDescription("Total pair evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return err
	}

	e.metrics.profitable, err = meter.Int64Counter(
		"arbitrage_profitable_total",
		metric.WithDescription("Evaluations with a profitable direction"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return err
	}

	e.metrics.failures, err = meter.Int64Counter(
		"arbitrage_evaluation_failures_total",
		metric.WithDescription("Evaluations aborted by a typed error"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return err
	}

	e.metrics.latency, err = meter.Float64Histogram(
		"arbitrage_evaluation_latency_ms",
		metric.WithDescription("Pair evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Config returns the trade configuration the evaluator runs with.
func (e *Evaluator) Config() domain.TradeConfig {
	return e.cfg
}

// EvaluatePair runs resolve, slot0, decimals and normalize for both pools
// concurrently, then the fee estimates, then the decision. The returned
// evaluation is never nil; on a pricing failure its Err is set and also
// returned.
func (e *Evaluator) EvaluatePair(ctx context.Context, pair domain.Pair, blockNumber uint64) (*domain.Evaluation, error) {
	ctx, span := apm.Start(ctx, e.tracer, "arbitrage.evaluate_pair",
		attribute.Int("pair", pair.Index),
		attribute.String("master", pair.Master.Hex()),
		attribute.String("comparison", pair.Comparison.Hex()),
		attribute.Int64("block", int64(blockNumber)),
	)
	start := e.now()
	e.metrics.evaluations.Add(ctx, 1)

	eval := domain.NewEvaluation(pair, blockNumber, start)
	eval.MasterSymbol = e.symbol(ctx, pair.Master)
	eval.ComparisonSymbol = e.symbol(ctx, pair.Comparison)

	err := e.evaluate(ctx, eval)
	if err != nil {
		eval.Err = err
		e.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("code", string(apperror.GetCode(err)))))
		e.logger.Warn(ctx, "pair evaluation failed", "pair", eval.PairLabel(), "error", err)
	} else {
		span.SetAttributes(
			attribute.Bool("profitable", eval.Decision.Profitable),
			attribute.Float64("cost_a_to_b", eval.Decision.AToB.Cost),
			attribute.Float64("cost_b_to_a", eval.Decision.BToA.Cost),
		)
		if eval.Decision.Profitable {
			e.metrics.profitable.Add(ctx, 1)
		}
	}

	e.metrics.latency.Record(ctx, float64(e.now().Sub(start).Milliseconds()))
	span.End(err)
	return eval, err
}

func (e *Evaluator) evaluate(ctx context.Context, eval *domain.Evaluation) error {
	pair := eval.Pair

	// Each leg writes only its own slot.
	var quoteA, quoteB pricingDomain.PoolQuote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := e.quote(gctx, pair, e.cfg.FeeTierA, "A")
		quoteA = q
		return err
	})
	g.Go(func() error {
		q, err := e.quote(gctx, pair, e.cfg.FeeTierB, "B")
		quoteB = q
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	eval.PoolA.Quote = quoteA
	eval.PoolB.Quote = quoteB

	// Both pools hold the same token pair, so one token0 amount sized at
	// pool A's price feeds both fee simulations and the legs stay comparable.
	size, err := e.tradeSize(ctx, quoteA)
	if err != nil {
		return apperror.Annotate(err, apperror.CodeInvalidTradeSize, fmt.Sprintf("pair=%d", pair.Index))
	}
	eval.TradeSize = size
	amountIn := size.Raw()

	// Estimate failures are captured per pool, never returned.
	var fg errgroup.Group
	fg.Go(func() error {
		eval.PoolA.Fee, eval.PoolA.FeeErr = e.estimate(ctx, quoteA, amountIn, "A", pair.Index)
		return nil
	})
	fg.Go(func() error {
		eval.PoolB.Fee, eval.PoolB.FeeErr = e.estimate(ctx, quoteB, amountIn, "B", pair.Index)
		return nil
	})
	_ = fg.Wait()

	eval.Decision = domain.Evaluate(domain.Inputs{
		PriceA:     quoteA.Price(),
		PriceB:     quoteB.Price(),
		FeeA:       eval.PoolA.Fee,
		FeeB:       eval.PoolB.Fee,
		Thresholds: e.cfg.Thresholds,
	})

	if eval.Decision.Profitable && e.executor != nil {
		if err := e.executor.Execute(ctx, eval); err != nil {
			eval.ExecutionErr = apperror.Wrap(err, apperror.CodeExecutionFailed, fmt.Sprintf("pair=%d", pair.Index))
			e.logger.Error(ctx, "execution failed", "pair", eval.PairLabel(), "error", err)
		}
	}
	return nil
}

func (e *Evaluator) quote(ctx context.Context, pair domain.Pair, fee uint32, label string) (pricingDomain.PoolQuote, error) {
	q, err := e.quotes.Quote(ctx, pricingDomain.PoolKey{TokenA: pair.Master, TokenB: pair.Comparison, FeeTier: fee})
	if err != nil {
		return pricingDomain.PoolQuote{}, apperror.Annotate(err, apperror.CodeQueryFailed,
			fmt.Sprintf("pool=%s pair=%d", label, pair.Index))
	}
	return q, nil
}

func (e *Evaluator) estimate(ctx context.Context, q pricingDomain.PoolQuote, amountIn *big.Int, label string, pairIndex int) (domain.FeeEstimate, error) {
	f, err := e.fees.Estimate(ctx, q, amountIn)
	if err == nil {
		est := domain.EstimatedFee(f)
		if !est.Failed {
			return est, nil
		}
		err = apperror.New(apperror.CodeEstimationFailed, apperror.WithContextf("fee %v outside [0,1)", f))
	}

	err = apperror.Annotate(err, apperror.CodeEstimationFailed, fmt.Sprintf("pool=%s pair=%d", label, pairIndex))
	e.logger.Warn(ctx, "fee estimation failed, direction marked not profitable",
		"pool", label, "pair", pairIndex, "error", err)
	return domain.FailedFee(), err
}

// tradeSize converts the configured master-token amount into token0 units
// of the pool, the input side of the fee simulation.
func (e *Evaluator) tradeSize(ctx context.Context, q pricingDomain.PoolQuote) (asset.Amount, error) {
	token0, err := e.quotes.Token(ctx, q.Token0())
	if err != nil {
		return asset.Amount{}, err
	}

	amount := e.cfg.TradeAmount
	if q.Token0() != e.cfg.MasterToken {
		// Price is token0 in token1 and the master is token1.
		amount = amount.Div(decimal.NewFromFloat(q.Price()))
	}
	amount = amount.Truncate(int32(token0.Decimals()))

	size, err := asset.ParseDecimal(token0, amount)
	if err != nil {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidTradeSize, apperror.WithCause(err))
	}
	if size.IsZero() {
		return asset.Amount{}, apperror.New(apperror.CodeInvalidTradeSize,
			apperror.WithContextf("trade amount %s rounds to zero %s", e.cfg.TradeAmount, token0.Symbol()))
	}
	return size, nil
}

func (e *Evaluator) symbol(ctx context.Context, addr common.Address) string {
	t, err := e.quotes.Token(ctx, addr)
	if err != nil {
		return addr.Hex()[:10]
	}
	return t.Symbol()
}
