package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/asset"
)

// Service produces normalized pool quotes: resolve, read slot0, read both
// tokens' decimals, normalize.
type Service struct {
	pools  PoolResolver
	prices PriceReader
	tokens TokenReader
}

// NewService creates a new pricing Service.
func NewService(pools PoolResolver, prices PriceReader, tokens TokenReader) *Service {
	return &Service{
		pools:  pools,
		prices: prices,
		tokens: tokens,
	}
}

// Quote returns a fresh quote for the pool identified by key. slot0 and the
// token metadata are read concurrently once the pool is resolved.
func (s *Service) Quote(ctx context.Context, key domain.PoolKey) (domain.PoolQuote, error) {
	pool, err := s.pools.GetPool(ctx, key.TokenA, key.TokenB, key.FeeTier)
	if err != nil {
		return domain.PoolQuote{}, err
	}

	state := domain.PoolState{Pool: pool, FeeTier: key.FeeTier}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slot0, err := s.prices.Slot0(gctx, pool)
		if err != nil {
			return err
		}
		state.SqrtPriceX96 = slot0.SqrtPriceX96
		state.Tick = slot0.Tick
		return nil
	})
	g.Go(func() error {
		t0, t1, err := s.prices.Tokens(gctx, pool)
		if err != nil {
			return err
		}
		d0, err := s.tokens.Decimals(gctx, t0)
		if err != nil {
			return apperror.Annotate(err, apperror.CodeQueryFailed, "token=0")
		}
		d1, err := s.tokens.Decimals(gctx, t1)
		if err != nil {
			return apperror.Annotate(err, apperror.CodeQueryFailed, "token=1")
		}
		state.Token0, state.Token1 = t0, t1
		state.Decimals0, state.Decimals1 = d0, d1
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.PoolQuote{}, err
	}

	return domain.NewPoolQuote(state)
}

// Token returns token metadata for display and amount parsing.
func (s *Service) Token(ctx context.Context, addr common.Address) (*asset.Token, error) {
	return s.tokens.Token(ctx, addr)
}
