package domain

import (
	"encoding/hex"
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"checksummed", "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23", true},
		{"lower", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", true},
		{"upper_digits", "0xA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", true},
		{"zero_address", "0x0000000000000000000000000000000000000000", true},
		{"missing_prefix", "a0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", false},
		{"upper_prefix", "0XA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", false},
		{"too_short", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb4", false},
		{"too_long", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb488", false},
		{"non_hex", "0xg0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", false},
		{"empty", "", false},
		{"prefix_only", "0x", false},
		{"whitespace", " 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAddress(tt.in))
		})
	}
}

func TestRequireValidAddresses(t *testing.T) {
	err := RequireValidAddresses(map[string]string{
		"factory":      "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		"master_token": "WETH",
		"quoter":       "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
		"comparison_0": "0x123",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAddress))
	assert.Contains(t, err.Error(), "fields=comparison_0,master_token")

	assert.NoError(t, RequireValidAddresses(map[string]string{
		"factory": "0x1F98431c8aD98523631AE4a59f267346ea31F984",
	}))
}

func TestValidateAddresses_SortedVerdicts(t *testing.T) {
	got := ValidateAddresses(map[string]string{
		"router":  "0xE592427A0AEce92De3Edee1F18E0157C05861564",
		"factory": "nope",
	})
	require.Len(t, got, 2)
	assert.Equal(t, AddressCheck{Field: "factory", Value: "nope", Valid: false}, got[0])
	assert.Equal(t, "router", got[1].Field)
	assert.True(t, got[1].Valid)
}

func TestDeriveAddress_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "documented_vector",
			key:  "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
			want: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		},
		{
			name: "no_prefix",
			key:  "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
			want: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		},
		{
			name: "scalar_one",
			key:  "0x0000000000000000000000000000000000000000000000000000000000000001",
			want: "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveAddress(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Hex())

			key, err := ParsePrivateKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), got)
		})
	}
}

func TestDeriveAddress_AgreesWithGethForRandomKeys(t *testing.T) {
	for i := 0; i < 16; i++ {
		key, err := ethcrypto.GenerateKey()
		require.NoError(t, err)

		got, err := DeriveAddress("0x" + hex.EncodeToString(ethcrypto.FromECDSA(key)))
		require.NoError(t, err)
		assert.Equal(t, ethcrypto.PubkeyToAddress(key.PublicKey), got)
	}
}

func TestDeriveAddress_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		code apperror.Code
	}{
		{"not_hex", "0xzz", apperror.CodeInvalidHex},
		{"odd_length", "0xabc", apperror.CodeInvalidHex},
		{"empty", "", apperror.CodeInvalidScalar},
		{"short", "0x01", apperror.CodeInvalidScalar},
		{"zero", "0x" + strings.Repeat("00", 32), apperror.CodeInvalidScalar},
		{"curve_order", "0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", apperror.CodeInvalidScalar},
		{"above_order", "0x" + strings.Repeat("ff", 32), apperror.CodeInvalidScalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveAddress(tt.key)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
			assert.True(t, IsInvalidPrivateKey(err))
			if len(tt.key) > 8 {
				assert.NotContains(t, err.Error(), tt.key[2:10], "error must not echo the key")
			}
		})
	}
}

func TestIsInvalidPrivateKey_OtherCodes(t *testing.T) {
	assert.False(t, IsInvalidPrivateKey(apperror.New(apperror.CodeInvalidAddress)))
	assert.False(t, IsInvalidPrivateKey(nil))
}
