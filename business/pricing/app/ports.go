// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/asset"
)

// PoolResolver maps a pair and fee tier to a pool address.
type PoolResolver interface {
	// GetPool returns the pool address or PoolNotFound.
	GetPool(ctx context.Context, tokenA, tokenB common.Address, fee uint32) (common.Address, error)
}

// PriceReader reads live pool state.
type PriceReader interface {
	Slot0(ctx context.Context, pool common.Address) (domain.Slot0, error)
	Tokens(ctx context.Context, pool common.Address) (token0, token1 common.Address, err error)
}

// TokenReader resolves ERC20 metadata.
type TokenReader interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Token(ctx context.Context, token common.Address) (*asset.Token, error)
}
