// Package blockchain implements the blockchain bounded context: contract
// calls, nonces, chain heads and gas prices.
package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/pool-arbitrage/business/blockchain/app"
	blockchainDI "github.com/fd1az/pool-arbitrage/business/blockchain/di"
	"github.com/fd1az/pool-arbitrage/business/blockchain/infra/ethereum"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/monolith"
	"github.com/fd1az/pool-arbitrage/internal/ratelimit"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, blockchainDI.ContractCaller, func(sr di.ServiceRegistry) app.ContractCaller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		limiter := sr.Get("rateLimiter").(*ratelimit.Limiter)

		caller, err := ethereum.NewContractCaller(client, limiter, cfg.RPC.CallTimeout, log)
		if err != nil {
			panic("failed to create contract caller: " + err.Error())
		}
		return caller
	})

	di.RegisterToken(c, blockchainDI.NonceSource, func(sr di.ServiceRegistry) app.NonceSource {
		return ethereum.NewNonceManager(sr.Get("ethClient").(*ethclient.Client))
	})

	// Register BlockSubscriber (private - internal dependency)
	di.RegisterToken(c, blockchainDI.BlockSubscriber, func(sr di.ServiceRegistry) app.BlockSubscriber {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ep := sr.Get("endpoint").(config.EndpointConfig)

		subCfg := ethereum.DefaultSubscriberConfig(ep.WebSocketURL)
		subCfg.PollInterval = cfg.Chain.PollInterval
		subCfg.InitialBackoff = cfg.Chain.InitialBackoff
		subCfg.MaxBackoff = cfg.Chain.MaxBackoff
		subCfg.MaxReconnects = cfg.Chain.MaxReconnects

		sub, err := ethereum.NewSubscriber(subCfg, sr.Get("ethClient").(*ethclient.Client), log)
		if err != nil {
			panic("failed to create subscriber: " + err.Error())
		}
		return sub
	})

	// Register GasOracle (private - internal dependency)
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.GasOracle {
		log := sr.Get("logger").(logger.LoggerInterface)

		oracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(), sr.Get("ethClient").(*ethclient.Client), log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	// Register BlockchainService (public - exposed to other modules)
	di.RegisterToken(c, blockchainDI.BlockchainService, func(sr di.ServiceRegistry) *app.BlockchainService {
		return app.NewBlockchainService(blockchainDI.GetBlockSubscriber(sr), blockchainDI.GetGasOracle(sr))
	})

	return nil
}

// Startup verifies the node serves the configured chain and registers
// health checks.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	chainID, err := mono.EthClient().ChainID(ctx)
	if err != nil {
		return fmt.Errorf("read chain id: %w", err)
	}
	if want := mono.Network().ChainID(); chainID.Uint64() != want {
		return fmt.Errorf("endpoint serves chain %d, %s expects %d", chainID.Uint64(), mono.Network(), want)
	}

	if hs := mono.Health(); hs != nil {
		svc := blockchainDI.GetBlockchainService(mono.Services())
		hs.RegisterCheck("rpc", func(ctx context.Context) (bool, string) {
			b, err := svc.LatestBlock(ctx)
			if err != nil {
				return false, err.Error()
			}
			return true, fmt.Sprintf("block %d", b.Number)
		})

		if br, ok := blockchainDI.GetContractCaller(mono.Services()).(interface {
			Healthy() bool
			BreakerState() string
		}); ok {
			hs.RegisterCheck("breaker:eth-call", func(context.Context) (bool, string) {
				return br.Healthy(), br.BreakerState()
			})
		}
	}

	log.Info(ctx, "blockchain module started", "network", mono.Network().String(), "chain_id", chainID.Uint64())
	return nil
}
