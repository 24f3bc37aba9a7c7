package asset_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/pool-arbitrage/internal/asset"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		token *asset.Token
		in    string
		want  string
	}{
		{"one_weth", asset.WETH, "1", "1000000000000000000"},
		{"fractional_weth", asset.WETH, "1.5", "1500000000000000000"},
		{"usdc", asset.USDC, "2500.25", "2500250000"},
		{"wbtc", asset.WBTC, "0.00000001", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amt, err := asset.ParseString(tt.token, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if amt.Raw().String() != tt.want {
				t.Errorf("raw = %s, want %s", amt.Raw().String(), tt.want)
			}
		})
	}
}

func TestParseDecimal_TooManyDecimals(t *testing.T) {
	_, err := asset.ParseDecimal(asset.USDC, decimal.RequireFromString("1.1234567"))
	if err != asset.ErrTooManyDecimals {
		t.Errorf("expected ErrTooManyDecimals, got %v", err)
	}
}

func TestParseDecimal_Negative(t *testing.T) {
	_, err := asset.ParseDecimal(asset.WETH, decimal.NewFromInt(-1))
	if err != asset.ErrNegativeAmount {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestParseString_Invalid(t *testing.T) {
	if _, err := asset.ParseString(asset.WETH, "abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestAmount_Display(t *testing.T) {
	amt := asset.NewAmount(asset.WETH, big.NewInt(1e18))
	if amt.String() != "1 WETH" {
		t.Errorf("expected '1 WETH', got '%s'", amt.String())
	}
	if !amt.ToDecimal().Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", amt.ToDecimal())
	}
}

func TestAmount_RawIsCopy(t *testing.T) {
	amt := asset.NewAmount(asset.USDC, big.NewInt(100))
	amt.Raw().SetInt64(5)
	if amt.Raw().Int64() != 100 {
		t.Error("mutating Raw() must not change the amount")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := asset.DefaultRegistry()

	usdc, ok := r.Get(asset.ChainIDEthereum, asset.AddrUSDCEthereum)
	if !ok {
		t.Fatal("USDC not found in registry")
	}
	if usdc.Decimals() != 6 {
		t.Errorf("expected 6 decimals, got %d", usdc.Decimals())
	}

	weth, ok := r.GetBySymbol(asset.ChainIDBase, "weth")
	if !ok {
		t.Fatal("WETH on Base not found")
	}
	if weth.Address() != asset.AddrWETHOPStack {
		t.Errorf("unexpected Base WETH address %s", weth.Address().Hex())
	}

	// Same address, different chain, different token.
	op, _ := r.Get(asset.ChainIDOptimism, asset.AddrWETHOPStack)
	if op.Equals(weth) {
		t.Error("tokens on different chains must not be equal")
	}
}

func TestRegistry_RegisterKeepsFirst(t *testing.T) {
	r := asset.NewRegistry()
	first := r.Register(asset.NewToken(1, asset.AddrDAIEthereum, "DAI", "", 18))
	second := r.Register(asset.NewToken(1, asset.AddrDAIEthereum, "DAI2", "", 18))

	if first != second {
		t.Error("second registration should return the existing token")
	}
	if r.Count() != 1 {
		t.Errorf("expected 1 token, got %d", r.Count())
	}
}
