package uniswap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/cache"
)

type poolTokens struct {
	token0 common.Address
	token1 common.Address
}

type poolReaderMetrics struct {
	slot0Reads metric.Int64Counter
	locked     metric.Int64Counter
}

// PoolReader reads pool state. slot0 is always read fresh; token0/token1
// are immutable and cached.
type PoolReader struct {
	contract contract
	tokens   *cache.Cache[common.Address, poolTokens]

	tracer  trace.Tracer
	metrics *poolReaderMetrics
}

// NewPoolReader creates a pool reader caching up to cacheSize token pairs.
func NewPoolReader(caller app.ContractCaller, cacheSize int) (*PoolReader, error) {
	r := &PoolReader{
		contract: contract{abi: PoolContract, caller: caller},
		tokens:   cache.New[common.Address, poolTokens](cacheSize, 0),
		tracer:   otel.Tracer(tracerName),
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return r, nil
}

func (r *PoolReader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &poolReaderMetrics{}

	r.metrics.slot0Reads, err = meter.Int64Counter(
		"uniswap_slot0_reads_total",
		metric.WithDescription("Total slot0 reads"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return err
	}

	r.metrics.locked, err = meter.Int64Counter(
		"uniswap_slot0_locked_total",
		metric.WithDescription("slot0 reads observed mid-swap (unlocked=false)"),
		metric.WithUnit("{read}"),
	)
	return err
}

// Slot0 reads the pool's current sqrt price and tick.
func (r *PoolReader) Slot0(ctx context.Context, pool common.Address) (domain.Slot0, error) {
	ctx, span := apm.Start(ctx, r.tracer, "uniswap.slot0", attribute.String("pool", pool.Hex()))
	r.metrics.slot0Reads.Add(ctx, 1)

	values, err := r.contract.call(ctx, pool, "slot0")
	if err != nil {
		span.End(err)
		return domain.Slot0{}, err
	}
	if len(values) < 7 {
		err = queryFailed("slot0", pool, fmt.Errorf("unexpected output length: %d", len(values)))
		span.End(err)
		return domain.Slot0{}, err
	}

	sqrt, ok := values[0].(*big.Int)
	if !ok {
		err = queryFailed("slot0", pool, errUnexpectedType(values[0]))
		span.End(err)
		return domain.Slot0{}, err
	}
	tick, _ := values[1].(*big.Int)
	unlocked, _ := values[6].(bool)

	s := domain.Slot0{SqrtPriceX96: sqrt, Unlocked: unlocked}
	if tick != nil {
		s.Tick = int32(tick.Int64())
	}
	if !unlocked {
		r.metrics.locked.Add(ctx, 1)
	}

	span.SetAttributes(attribute.String("sqrt_price_x96", sqrt.String()), attribute.Int("tick", int(s.Tick)))
	span.End(nil)
	return s, nil
}

// Tokens returns the pool's token0 and token1.
func (r *PoolReader) Tokens(ctx context.Context, pool common.Address) (common.Address, common.Address, error) {
	ctx, span := apm.Start(ctx, r.tracer, "uniswap.tokens", attribute.String("pool", pool.Hex()))

	pt, _, err := r.tokens.GetOrLoad(ctx, pool, func(ctx context.Context) (poolTokens, error) {
		t0, err := r.address(ctx, pool, "token0")
		if err != nil {
			return poolTokens{}, err
		}
		t1, err := r.address(ctx, pool, "token1")
		if err != nil {
			return poolTokens{}, err
		}
		return poolTokens{token0: t0, token1: t1}, nil
	})
	span.End(err)
	return pt.token0, pt.token1, err
}

func (r *PoolReader) address(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	values, err := r.contract.call(ctx, pool, method)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, queryFailed(method, pool, errUnexpectedType(values[0]))
	}
	return addr, nil
}

func errUnexpectedType(v interface{}) error {
	return fmt.Errorf("unexpected output type %T", v)
}
