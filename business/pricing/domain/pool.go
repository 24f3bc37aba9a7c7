package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey identifies a concentrated-liquidity pool by its pair and fee tier.
// The factory is order-insensitive, so TokenA/TokenB keep the caller's order.
type PoolKey struct {
	TokenA  common.Address
	TokenB  common.Address
	FeeTier uint32
}

func (k PoolKey) String() string {
	return fmt.Sprintf("%s/%s@%d", k.TokenA.Hex(), k.TokenB.Hex(), k.FeeTier)
}

// Slot0 is the subset of pool slot0 the engine uses.
type Slot0 struct {
	SqrtPriceX96 *big.Int
	Tick         int32
	Unlocked     bool
}

// PoolState is what the chain reports for a resolved pool.
type PoolState struct {
	Pool         common.Address
	Token0       common.Address
	Token1       common.Address
	FeeTier      uint32
	SqrtPriceX96 *big.Int
	Tick         int32
	Decimals0    uint8
	Decimals1    uint8
}

// PoolQuote is an immutable price observation of a single pool. Price is the
// human-unit price of token0 quoted in token1.
type PoolQuote struct {
	pool      common.Address
	token0    common.Address
	token1    common.Address
	feeTier   uint32
	sqrtPrice *big.Int
	tick      int32
	rawPrice  float64
	price     float64
	decimals0 uint8
	decimals1 uint8
}

// NewPoolQuote decodes and normalizes the pool state. It fails with
// StalePrice when the sqrt price is at or below MinSqrtRatio.
func NewPoolQuote(s PoolState) (PoolQuote, error) {
	raw, err := DecodeSqrtPriceX96(s.SqrtPriceX96)
	if err != nil {
		return PoolQuote{}, err
	}

	return PoolQuote{
		pool:      s.Pool,
		token0:    s.Token0,
		token1:    s.Token1,
		feeTier:   s.FeeTier,
		sqrtPrice: new(big.Int).Set(s.SqrtPriceX96),
		tick:      s.Tick,
		rawPrice:  raw,
		price:     NormalizePrice(raw, s.Decimals1, s.Decimals0),
		decimals0: s.Decimals0,
		decimals1: s.Decimals1,
	}, nil
}

func (q PoolQuote) Pool() common.Address   { return q.pool }
func (q PoolQuote) Token0() common.Address { return q.token0 }
func (q PoolQuote) Token1() common.Address { return q.token1 }
func (q PoolQuote) FeeTier() uint32        { return q.feeTier }
func (q PoolQuote) Tick() int32            { return q.tick }
func (q PoolQuote) RawPrice() float64      { return q.rawPrice }
func (q PoolQuote) Price() float64         { return q.price }
func (q PoolQuote) Decimals0() uint8       { return q.decimals0 }
func (q PoolQuote) Decimals1() uint8       { return q.decimals1 }

// SqrtPriceX96 returns a copy of the raw sqrt price.
func (q PoolQuote) SqrtPriceX96() *big.Int {
	if q.sqrtPrice == nil {
		return nil
	}
	return new(big.Int).Set(q.sqrtPrice)
}

// IsZero reports whether q is the zero quote.
func (q PoolQuote) IsZero() bool {
	return q.sqrtPrice == nil
}

// FeeFraction is the pool's nominal LP fee, fee tier over 1e6.
func (q PoolQuote) FeeFraction() float64 {
	return float64(q.feeTier) / 1e6
}

func (q PoolQuote) String() string {
	return fmt.Sprintf("pool=%s fee=%d price=%.10g", q.pool.Hex(), q.feeTier, q.price)
}
