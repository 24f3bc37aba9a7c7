// Package pricing implements the pricing bounded context: pool resolution,
// slot0 reads and decimal normalization.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	blockchainDI "github.com/fd1az/pool-arbitrage/business/blockchain/di"
	"github.com/fd1az/pool-arbitrage/business/pricing/app"
	"github.com/fd1az/pool-arbitrage/business/pricing/domain"
	pricingDI "github.com/fd1az/pool-arbitrage/business/pricing/di"
	"github.com/fd1az/pool-arbitrage/business/pricing/infra/uniswap"
	"github.com/fd1az/pool-arbitrage/internal/asset"
	"github.com/fd1az/pool-arbitrage/internal/cache"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/monolith"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register PoolResolver (Uniswap factory) - private dependency
	di.RegisterToken(c, pricingDI.PoolResolver, func(sr di.ServiceRegistry) app.PoolResolver {
		cfg := sr.Get("config").(*config.Config)

		pools := cache.New[domain.PoolKey, common.Address](cfg.RPC.CacheSize, cfg.RPC.CacheTTL)
		return uniswap.NewFactory(common.HexToAddress(cfg.Uniswap.FactoryAddress), blockchainDI.GetContractCaller(sr), pools)
	})

	// Register PriceReader (pool slot0) - private dependency
	di.RegisterToken(c, pricingDI.PriceReader, func(sr di.ServiceRegistry) app.PriceReader {
		cfg := sr.Get("config").(*config.Config)

		reader, err := uniswap.NewPoolReader(blockchainDI.GetContractCaller(sr), cfg.RPC.CacheSize)
		if err != nil {
			panic("failed to create pool reader: " + err.Error())
		}
		return reader
	})

	// Register TokenReader (ERC20 metadata) - private dependency
	di.RegisterToken(c, pricingDI.TokenReader, func(sr di.ServiceRegistry) app.TokenReader {
		log := sr.Get("logger").(logger.LoggerInterface)
		net := sr.Get("network").(network.Network)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		return uniswap.NewTokenReader(net.ChainID(), blockchainDI.GetContractCaller(sr), registry, log)
	})

	// Register Service (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.Service {
		return app.NewService(
			pricingDI.GetPoolResolver(sr),
			pricingDI.GetPriceReader(sr),
			pricingDI.GetTokenReader(sr),
		)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	mono.Logger().Info(ctx, "pricing module started",
		"factory", cfg.Uniswap.FactoryAddress,
		"fee_tier_a", cfg.Uniswap.FeeTierA,
		"fee_tier_b", cfg.Uniswap.FeeTierB,
	)
	return nil
}
