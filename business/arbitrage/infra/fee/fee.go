// Package fee implements the per-pool fee estimators: a static fee, a
// non-mutating QuoterV2 simulation, and an opt-in on-chain swap.
package fee

import (
	"fmt"
	"math/big"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

const (
	tracerName = "fee"
	meterName  = "fee"
)

// FeeFromOutput derives the effective fee of a token0 -> token1 swap:
// 1 - amountOut / (amountIn * rawPrice). Negative results floor at zero;
// results at or above one are EstimationFailed.
func FeeFromOutput(amountIn, amountOut *big.Int, rawPrice float64) (float64, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return 0, failed(fmt.Errorf("amount in must be positive"))
	}
	if amountOut == nil || amountOut.Sign() < 0 {
		return 0, failed(fmt.Errorf("amount out must be non-negative"))
	}
	if !(rawPrice > 0) {
		return 0, failed(fmt.Errorf("raw price %v not positive", rawPrice))
	}

	expected := new(big.Float).Mul(new(big.Float).SetInt(amountIn), big.NewFloat(rawPrice))
	ratio, _ := new(big.Float).Quo(new(big.Float).SetInt(amountOut), expected).Float64()

	fee := 1 - ratio
	if fee < 0 {
		fee = 0
	}
	if fee >= 1 {
		return 0, failed(fmt.Errorf("fee %v outside [0,1)", fee))
	}
	return fee, nil
}

func failed(cause error, detail ...string) error {
	opts := []apperror.Option{apperror.WithCause(cause)}
	if len(detail) > 0 {
		opts = append(opts, apperror.WithContext(detail[0]))
	}
	return apperror.New(apperror.CodeEstimationFailed, opts...)
}
