// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/pool-arbitrage/business/pricing/app"
	"github.com/fd1az/pool-arbitrage/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.Service]("pricing.Service")
)

// Private dependency tokens - internal to pricing module
var (
	PoolResolver = di.NewToken[app.PoolResolver]("pricing:poolResolver")
	PriceReader  = di.NewToken[app.PriceReader]("pricing:priceReader")
	TokenReader  = di.NewToken[app.TokenReader]("pricing:tokenReader")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.Service {
	return di.GetToken(c, PricingService)
}

func GetPoolResolver(c di.ServiceRegistry) app.PoolResolver {
	return di.GetToken(c, PoolResolver)
}

func GetPriceReader(c di.ServiceRegistry) app.PriceReader {
	return di.GetToken(c, PriceReader)
}

func GetTokenReader(c di.ServiceRegistry) app.TokenReader {
	return di.GetToken(c, TokenReader)
}
