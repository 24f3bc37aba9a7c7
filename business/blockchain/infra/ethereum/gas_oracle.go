package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/business/blockchain/domain"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/cache"
	"github.com/fd1az/pool-arbitrage/internal/circuitbreaker"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

var _ app.GasOracle = (*GasOracle)(nil)

// GasBackend is the subset of ethclient.Client the oracle needs.
type GasBackend interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// GasOracleConfig holds configuration for the gas oracle.
type GasOracleConfig struct {
	CacheTTL    time.Duration // how long a price is reused, about one block
	MaxGasPrice *big.Int      // clamp for obviously wrong node answers
}

// DefaultGasOracleConfig returns sensible defaults.
func DefaultGasOracleConfig() GasOracleConfig {
	maxGas, _ := new(big.Int).SetString("500000000000", 10) // 500 gwei
	return GasOracleConfig{
		CacheTTL:    12 * time.Second,
		MaxGasPrice: maxGas,
	}
}

type gasOracleMetrics struct {
	fetches   metric.Int64Counter
	gwei      metric.Float64Gauge
	cacheHits metric.Int64Counter
}

// GasOracle reports the suggested gas price with a short-lived cache.
type GasOracle struct {
	config  GasOracleConfig
	backend GasBackend
	logger  logger.LoggerInterface
	now     func() time.Time

	priceCache *cache.Cache[string, *domain.GasPrice]
	cb         *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *gasOracleMetrics
}

// NewGasOracle creates a new gas oracle over backend.
func NewGasOracle(cfg GasOracleConfig, backend GasBackend, log logger.LoggerInterface) (*GasOracle, error) {
	g := &GasOracle{
		config:     cfg,
		backend:    backend,
		logger:     log,
		now:        time.Now,
		priceCache: cache.New[string, *domain.GasPrice](1, cfg.CacheTTL),
		cb:         circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-oracle")),
		tracer:     otel.Tracer(tracerName),
	}

	if err := g.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return g, nil
}

func (g *GasOracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	g.metrics = &gasOracleMetrics{}

	g.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	g.metrics.gwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	g.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	return err
}

// GasPrice returns the suggested gas price, served from cache within CacheTTL.
func (g *GasOracle) GasPrice(ctx context.Context) (*domain.GasPrice, error) {
	ctx, span := apm.Start(ctx, g.tracer, "gas.price")

	price, hit, err := g.priceCache.GetOrLoad(ctx, "current", g.fetch)
	if hit {
		g.metrics.cacheHits.Add(ctx, 1)
	}
	if err == nil {
		span.SetAttributes(attribute.Float64("gwei", price.Gwei()), attribute.Bool("cache_hit", hit))
	}
	span.End(err)
	return price, err
}

func (g *GasOracle) fetch(ctx context.Context) (*domain.GasPrice, error) {
	g.metrics.fetches.Add(ctx, 1)

	wei, err := g.cb.Execute(func() (*big.Int, error) {
		return g.backend.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, apperror.New(apperror.CodeEthereumRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	if g.config.MaxGasPrice != nil && wei.Cmp(g.config.MaxGasPrice) > 0 {
		g.logger.Warn(ctx, "gas price exceeds max", "wei", wei.String())
		wei = g.config.MaxGasPrice
	}

	price := domain.NewGasPrice(wei, g.now())
	g.metrics.gwei.Record(ctx, price.Gwei())
	return price, nil
}

// Close drops cached prices.
func (g *GasOracle) Close() error {
	g.priceCache.Close()
	return nil
}
