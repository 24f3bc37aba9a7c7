package uniswap

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/cache"
)

const (
	tracerName = "uniswap"
	meterName  = "uniswap"
)

// Factory resolves pool addresses through IUniswapV3Factory.getPool.
// A pool's address never changes once deployed, so hits are cached.
type Factory struct {
	address  common.Address
	contract contract
	pools    *cache.Cache[domain.PoolKey, common.Address]
	tracer   trace.Tracer
}

// NewFactory creates a factory reader. pools may be shared with other readers.
func NewFactory(address common.Address, caller app.ContractCaller, pools *cache.Cache[domain.PoolKey, common.Address]) *Factory {
	return &Factory{
		address:  address,
		contract: contract{abi: FactoryContract, caller: caller},
		pools:    pools,
		tracer:   otel.Tracer(tracerName),
	}
}

// Address returns the factory contract address.
func (f *Factory) Address() common.Address {
	return f.address
}

// GetPool returns the pool for (tokenA, tokenB, fee). The factory accepts
// either token order. A zero address is PoolNotFound.
func (f *Factory) GetPool(ctx context.Context, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	ctx, span := apm.Start(ctx, f.tracer, "uniswap.get_pool",
		attribute.String("token_a", tokenA.Hex()),
		attribute.String("token_b", tokenB.Hex()),
		attribute.Int64("fee", int64(fee)),
	)

	key := domain.PoolKey{TokenA: tokenA, TokenB: tokenB, FeeTier: fee}
	pool, hit, err := f.pools.GetOrLoad(ctx, key, func(ctx context.Context) (common.Address, error) {
		return f.resolve(ctx, key)
	})
	if err == nil {
		span.SetAttributes(attribute.String("pool", pool.Hex()), attribute.Bool("cache_hit", hit))
	}
	span.End(err)
	return pool, err
}

func (f *Factory) resolve(ctx context.Context, key domain.PoolKey) (common.Address, error) {
	values, err := f.contract.call(ctx, f.address, "getPool", key.TokenA, key.TokenB, big.NewInt(int64(key.FeeTier)))
	if err != nil {
		return common.Address{}, err
	}

	pool, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, queryFailed("getPool", f.address, errUnexpectedType(values[0]))
	}
	if pool == (common.Address{}) {
		return common.Address{}, apperror.New(apperror.CodePoolNotFound,
			apperror.WithContextf("factory=%s tokenA=%s tokenB=%s fee=%d",
				f.address.Hex(), key.TokenA.Hex(), key.TokenB.Hex(), key.FeeTier))
	}
	return pool, nil
}
