// Package domain contains the pricing rules for concentrated-liquidity
// pools: sqrt-price decoding, decimal normalization and the pool quote.
package domain

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// MinSqrtRatio is the Uniswap V3 TickMath lower bound on sqrtPriceX96.
var MinSqrtRatio = big.NewInt(4295128739)

// MaxSqrtRatio is the matching upper bound.
var MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

const (
	two64 = 18446744073709551616.0 // 2^64
	two96 = 79228162514264337593543950336.0
)

// DecodeSqrtPriceX96 converts a Q64.96 sqrt price into the raw token1/token0
// price. The value is split into 64-bit halves so the float conversion keeps
// the high bits exact. raw at or below MinSqrtRatio is StalePrice.
func DecodeSqrtPriceX96(raw *big.Int) (float64, error) {
	if raw == nil || raw.Cmp(MinSqrtRatio) <= 0 {
		return 0, apperror.New(apperror.CodeStalePrice,
			apperror.WithContextf("sqrtPriceX96=%s", bigString(raw)))
	}

	v, overflow := uint256.FromBig(raw)
	if overflow {
		return 0, apperror.New(apperror.CodeStalePrice,
			apperror.WithContext("sqrtPriceX96 exceeds 256 bits"))
	}

	// v[0] is the low limb; v[1..3] form the high part.
	high := float64(v[3])*two64*two64 + float64(v[2])*two64 + float64(v[1])
	low := float64(v[0])

	sqrt := (high*two64 + low) / two96
	return sqrt * sqrt, nil
}

// SqrtPriceLimit returns raw moved down by deltaBps basis points, clamped
// strictly above MinSqrtRatio. It is the price limit for a token0->token1
// swap simulation.
func SqrtPriceLimit(raw *big.Int, deltaBps float64) *big.Int {
	const scale = 1_000_000
	keep := int64(math.Round((1 - deltaBps/10_000) * scale))
	if keep < 0 {
		keep = 0
	}

	limit := new(big.Int).Mul(raw, big.NewInt(keep))
	limit.Quo(limit, big.NewInt(scale))

	floor := new(big.Int).Add(MinSqrtRatio, big.NewInt(1))
	if limit.Cmp(floor) < 0 {
		return floor
	}
	return limit
}

func bigString(b *big.Int) string {
	if b == nil {
		return "nil"
	}
	return b.String()
}
