package fee

import (
	"context"
	"math/big"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	pricingDomain "github.com/fd1az/pool-arbitrage/business/pricing/domain"
)

var _ app.FeeEstimator = (*Static)(nil)

// Static returns a configured fee, or the pool's nominal fee tier.
type Static struct {
	fixed float64
}

// NewStatic creates a static estimator. A zero fixed fee falls back to the
// fee tier.
func NewStatic(fixed float64) *Static {
	return &Static{fixed: fixed}
}

func (s *Static) Estimate(_ context.Context, q pricingDomain.PoolQuote, _ *big.Int) (float64, error) {
	if s.fixed > 0 {
		return s.fixed, nil
	}
	return q.FeeFraction(), nil
}
