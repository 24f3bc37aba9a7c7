package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// GasCost is the network cost of one swap transaction at the observed gas
// price. It is reported next to a decision; the formula uses the configured
// flat gas cost instead.
type GasCost struct {
	GasLimit uint64
	GasPrice *big.Int // in wei
	TotalWei *big.Int // gasLimit * gasPrice
	Native   decimal.Decimal
}

// NewGasCost creates a GasCost from gas parameters. A nil price is zero.
func NewGasCost(gasLimit uint64, gasPriceWei *big.Int) *GasCost {
	price := new(big.Int)
	if gasPriceWei != nil {
		price.Set(gasPriceWei)
	}
	totalWei := new(big.Int).Mul(price, new(big.Int).SetUint64(gasLimit))

	// 1 native unit = 10^18 wei
	native := decimal.NewFromBigInt(totalWei, -18)

	return &GasCost{
		GasLimit: gasLimit,
		GasPrice: price,
		TotalWei: totalWei,
		Native:   native,
	}
}
