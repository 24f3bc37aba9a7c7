package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Network
		chainID uint64
	}{
		{"ethereum", Ethereum, 1},
		{"mainnet", Ethereum, 1},
		{" Arbitrum ", Arbitrum, 42161},
		{"OPTIMISM", Optimism, 10},
		{"polygon", Polygon, 137},
		{"base", Base, 8453},
		{"sepolia", Sepolia, 11155111},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.chainID, got.ChainID())
			assert.True(t, got.Valid())
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	got, err := Parse("solana")
	require.Error(t, err)
	assert.Equal(t, Unknown, got)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnsupportedNetwork))
	assert.False(t, got.Valid())
	assert.Equal(t, "unknown", got.String())
}

func TestAll_RoundTrips(t *testing.T) {
	for _, n := range All() {
		parsed, err := Parse(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, parsed)
	}
}
