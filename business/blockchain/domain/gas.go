package domain

import (
	"math/big"
	"time"
)

// GasPrice is a suggested gas price observed at a point in time.
// It is shown next to each evaluation; the profitability formula uses the
// configured gas cost instead.
type GasPrice struct {
	Wei        *big.Int
	ObservedAt time.Time
}

// NewGasPrice copies wei so callers cannot mutate the snapshot.
func NewGasPrice(wei *big.Int, at time.Time) *GasPrice {
	return &GasPrice{Wei: new(big.Int).Set(wei), ObservedAt: at}
}

// Gwei converts to gwei for display.
func (g *GasPrice) Gwei() float64 {
	if g == nil || g.Wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(g.Wei), big.NewFloat(1e9)).Float64()
	return f
}
