package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
	"github.com/fd1az/pool-arbitrage/internal/asset"
)

// PoolSide is one pool's contribution to an evaluation.
type PoolSide struct {
	Label  string // "A" or "B"
	Quote  pricingDomain.PoolQuote
	Fee    FeeEstimate
	FeeErr error
}

// Evaluation is one pair's result for one run. Err is set when the pair
// could not be priced; Decision is then the zero value.
type Evaluation struct {
	ID               uuid.UUID
	Pair             Pair
	MasterSymbol     string
	ComparisonSymbol string
	PoolA            PoolSide
	PoolB            PoolSide
	Decision         ArbitrageDecision
	TradeSize        asset.Amount
	BlockNumber      uint64
	Timestamp        time.Time
	GasCost          *GasCost
	Err              error
	ExecutionErr     error
}

// NewEvaluation stamps a fresh evaluation for pair.
func NewEvaluation(pair Pair, blockNumber uint64, at time.Time) *Evaluation {
	return &Evaluation{
		ID:          uuid.New(),
		Pair:        pair,
		PoolA:       PoolSide{Label: "A"},
		PoolB:       PoolSide{Label: "B"},
		BlockNumber: blockNumber,
		Timestamp:   at,
	}
}

// IsProfitable returns true if the pair was priced and a direction clears
// the thresholds.
func (e *Evaluation) IsProfitable() bool {
	return e.Err == nil && e.Decision.Profitable
}

// PairLabel returns "MASTER/COMPARISON", falling back to the pair's addresses.
func (e *Evaluation) PairLabel() string {
	if e.MasterSymbol == "" || e.ComparisonSymbol == "" {
		return e.Pair.String()
	}
	return fmt.Sprintf("%s/%s", e.MasterSymbol, e.ComparisonSymbol)
}
