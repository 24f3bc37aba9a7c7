package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

func validParams() TradeParams {
	return TradeParams{
		Network:          network.Ethereum,
		Factory:          "0x1F98431c8aD98523631AE4a59f267346ea31F984",
		Router:           "0xE592427A0AEce92De3Edee1F18E0157C05861564",
		Quoter:           "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
		MasterToken:      "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		ComparisonTokens: []string{"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
		FeeTierA:         500,
		FeeTierB:         3000,
		GasLimit:         0.001,
		SlippagePercent:  0.5,
		MinProfit:        0.001,
		TradeAmount:      decimal.NewFromInt(1),
	}
}

func TestNewTradeConfig(t *testing.T) {
	cfg, err := NewTradeConfig(validParams())
	if err != nil {
		t.Fatalf("NewTradeConfig() error = %v", err)
	}

	pairs := cfg.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("Pairs() = %d, want 1", len(pairs))
	}
	if pairs[0].Master != cfg.MasterToken || pairs[0].Comparison != cfg.ComparisonTokens[0] {
		t.Errorf("pair = %+v", pairs[0])
	}
	if cfg.Thresholds.SlippagePercent != 0.5 {
		t.Errorf("slippage = %v, want 0.5", cfg.Thresholds.SlippagePercent)
	}
}

func TestNewTradeConfig_InvalidAddressNamesFields(t *testing.T) {
	p := validParams()
	// Missing prefix, then one digit short.
	p.Router = "E592427A0AEce92De3Edee1F18E0157C05861564"
	p.ComparisonTokens = []string{"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB4"}

	_, err := NewTradeConfig(p)
	if !apperror.IsCode(err, apperror.CodeInvalidAddress) {
		t.Fatalf("error = %v, want INVALID_ADDRESS", err)
	}
	for _, field := range []string{"router", "comparison_tokens[0]"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name %s", err, field)
		}
	}
	if strings.Contains(err.Error(), "factory") {
		t.Errorf("error %q names a valid field", err)
	}
}

func TestNewTradeConfig_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*TradeParams)
		wantCode apperror.Code
	}{
		{"no_comparison_tokens", func(p *TradeParams) { p.ComparisonTokens = nil }, apperror.CodeInvalidInput},
		{"too_many_comparison_tokens", func(p *TradeParams) {
			p.ComparisonTokens = make([]string, MaxComparisonTokens+1)
		}, apperror.CodeInvalidInput},
		{"same_fee_tiers", func(p *TradeParams) { p.FeeTierB = p.FeeTierA }, apperror.CodeInvalidInput},
		{"negative_slippage", func(p *TradeParams) { p.SlippagePercent = -1 }, apperror.CodeInvalidInput},
		{"zero_trade_amount", func(p *TradeParams) { p.TradeAmount = decimal.Zero }, apperror.CodeInvalidTradeSize},
		{"comparison_equals_master", func(p *TradeParams) { p.ComparisonTokens = []string{p.MasterToken} }, apperror.CodeInvalidInput},
		{"unknown_network", func(p *TradeParams) { p.Network = network.Unknown }, apperror.CodeUnsupportedNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := NewTradeConfig(p)
			if !apperror.IsCode(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}
