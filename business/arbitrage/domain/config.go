package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	accountDomain "github.com/fd1az/pool-arbitrage/business/account/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

// MaxComparisonTokens bounds how many pairs a single run evaluates.
const MaxComparisonTokens = 5

// TradeParams is the unvalidated input to NewTradeConfig, usually taken
// straight from configuration.
type TradeParams struct {
	Network          network.Network
	Factory          string
	Router           string
	Quoter           string
	MasterToken      string
	ComparisonTokens []string
	FeeTierA         uint32
	FeeTierB         uint32
	GasLimit         float64
	SlippagePercent  float64
	MinProfit        float64
	TradeAmount      decimal.Decimal
}

// AddressFields names every address in p by its config field.
func (p TradeParams) AddressFields() map[string]string {
	fields := map[string]string{
		"factory":      p.Factory,
		"router":       p.Router,
		"quoter":       p.Quoter,
		"master_token": p.MasterToken,
	}
	for i, tok := range p.ComparisonTokens {
		fields[fmt.Sprintf("comparison_tokens[%d]", i)] = tok
	}
	return fields
}

// TradeConfig is the validated per-run snapshot. Every address in it passed
// the address grammar.
type TradeConfig struct {
	Network          network.Network
	Factory          common.Address
	Router           common.Address
	Quoter           common.Address
	MasterToken      common.Address
	ComparisonTokens []common.Address
	FeeTierA         uint32
	FeeTierB         uint32
	Thresholds       Thresholds
	TradeAmount      decimal.Decimal
}

// NewTradeConfig validates p. Malformed addresses yield InvalidAddress
// listing every failing field; other violations yield InvalidInput or
// InvalidTradeSize.
func NewTradeConfig(p TradeParams) (TradeConfig, error) {
	if !p.Network.Valid() {
		return TradeConfig{}, apperror.New(apperror.CodeUnsupportedNetwork,
			apperror.WithContextf("network=%s", p.Network))
	}

	n := len(p.ComparisonTokens)
	if n == 0 || n > MaxComparisonTokens {
		return TradeConfig{}, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContextf("comparison_tokens: want 1..%d, got %d", MaxComparisonTokens, n))
	}

	if err := accountDomain.RequireValidAddresses(p.AddressFields()); err != nil {
		return TradeConfig{}, err
	}

	if p.FeeTierA == p.FeeTierB {
		return TradeConfig{}, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContextf("fee tiers must differ, both %d", p.FeeTierA))
	}
	if p.GasLimit < 0 || p.SlippagePercent < 0 || p.MinProfit < 0 {
		return TradeConfig{}, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("gas_limit, slippage_percent and min_profit must be non-negative"))
	}
	if !p.TradeAmount.IsPositive() {
		return TradeConfig{}, apperror.New(apperror.CodeInvalidTradeSize,
			apperror.WithContextf("trade_amount=%s", p.TradeAmount))
	}

	master := common.HexToAddress(p.MasterToken)
	comparison := make([]common.Address, 0, n)
	for i, tok := range p.ComparisonTokens {
		addr := common.HexToAddress(tok)
		if addr == master {
			return TradeConfig{}, apperror.New(apperror.CodeInvalidInput,
				apperror.WithContextf("comparison_tokens[%d] equals master_token", i))
		}
		comparison = append(comparison, addr)
	}

	return TradeConfig{
		Network:          p.Network,
		Factory:          common.HexToAddress(p.Factory),
		Router:           common.HexToAddress(p.Router),
		Quoter:           common.HexToAddress(p.Quoter),
		MasterToken:      master,
		ComparisonTokens: comparison,
		FeeTierA:         p.FeeTierA,
		FeeTierB:         p.FeeTierB,
		Thresholds: Thresholds{
			GasLimit:        p.GasLimit,
			SlippagePercent: p.SlippagePercent,
			MinProfit:       p.MinProfit,
		},
		TradeAmount: p.TradeAmount,
	}, nil
}

// Pairs returns one pair per comparison token, in configured order.
func (c TradeConfig) Pairs() []Pair {
	pairs := make([]Pair, len(c.ComparisonTokens))
	for i, tok := range c.ComparisonTokens {
		pairs[i] = Pair{Index: i, Master: c.MasterToken, Comparison: tok}
	}
	return pairs
}

// Pair is one master/comparison token pair evaluated across both fee tiers.
type Pair struct {
	Index      int
	Master     common.Address
	Comparison common.Address
}

func (p Pair) String() string {
	return fmt.Sprintf("#%d %s/%s", p.Index, p.Master.Hex()[:10], p.Comparison.Hex()[:10])
}
