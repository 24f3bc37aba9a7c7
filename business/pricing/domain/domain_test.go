package domain

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func q96() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 96)
}

func TestDecodeSqrtPriceX96(t *testing.T) {
	tests := []struct {
		name string
		raw  *big.Int
		want float64
	}{
		{"one", q96(), 1.0},
		{"two_squared", new(big.Int).Lsh(big.NewInt(2), 96), 4.0},
		{"half_squared", new(big.Int).Lsh(big.NewInt(1), 95), 0.25},
		{"above_min", big.NewInt(4295128740), math.Pow(4295128740/math.Pow(2, 96), 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSqrtPriceX96(tt.raw)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, 1e-9)
		})
	}
}

func TestDecodeSqrtPriceX96_OneWithinTolerance(t *testing.T) {
	got, err := DecodeSqrtPriceX96(q96())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestDecodeSqrtPriceX96_Stale(t *testing.T) {
	tests := []struct {
		name string
		raw  *big.Int
	}{
		{"nil", nil},
		{"zero", big.NewInt(0)},
		{"min_sqrt_ratio", new(big.Int).Set(MinSqrtRatio)},
		{"below_min", big.NewInt(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSqrtPriceX96(tt.raw)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, apperror.CodeStalePrice))
		})
	}
}

func TestDecodeSqrtPriceX96_MaxRatioIsFinite(t *testing.T) {
	got, err := DecodeSqrtPriceX96(MaxSqrtRatio)
	require.NoError(t, err)
	assert.False(t, math.IsInf(got, 0))
	assert.Greater(t, got, 1e38)
}

func TestSqrtPriceLimit(t *testing.T) {
	raw := big.NewInt(1_000_000_000_000)

	got := SqrtPriceLimit(raw, 100)
	assert.Equal(t, big.NewInt(990_000_000_000), got)

	floor := new(big.Int).Add(MinSqrtRatio, big.NewInt(1))
	assert.Equal(t, floor, SqrtPriceLimit(new(big.Int).Set(MinSqrtRatio), 100))
	assert.Equal(t, floor, SqrtPriceLimit(raw, 20_000))
}

func TestNormalizePrice(t *testing.T) {
	const p = 3.5

	tests := []struct {
		name string
		decA uint8
		decB uint8
		want float64
	}{
		{"eighteen_six", 18, 6, p / 1e12},
		{"six_eighteen", 6, 18, p * 1e12},
		{"equal", 18, 18, p},
		{"zero_zero", 0, 0, p},
		{"eight_eighteen", 8, 18, p * 1e10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InEpsilon(t, tt.want, NormalizePrice(p, tt.decA, tt.decB), 1e-12)
		})
	}
}

func TestNewPoolQuote(t *testing.T) {
	sqrt := q96()
	state := PoolState{
		Pool:         common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"),
		Token0:       common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Token1:       common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"),
		FeeTier:      3000,
		SqrtPriceX96: sqrt,
		Decimals0:    6,
		Decimals1:    18,
	}

	q, err := NewPoolQuote(state)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, q.RawPrice(), 1e-9)
	assert.InEpsilon(t, 1e-12, q.Price(), 1e-9)
	assert.InDelta(t, 0.003, q.FeeFraction(), 1e-12)
	assert.False(t, q.IsZero())

	// Mutating the input or the returned copy must not reach the quote.
	sqrt.SetInt64(1)
	got := q.SqrtPriceX96()
	got.SetInt64(2)
	assert.Equal(t, q96(), q.SqrtPriceX96())
}

func TestNewPoolQuote_Stale(t *testing.T) {
	_, err := NewPoolQuote(PoolState{SqrtPriceX96: big.NewInt(0)})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeStalePrice))
}
