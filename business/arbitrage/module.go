// Package arbitrage implements the arbitrage bounded context: fee
// estimation, the two-direction evaluation and the run loop.
package arbitrage

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	accountDI "github.com/fd1az/pool-arbitrage/business/account/di"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/pool-arbitrage/business/arbitrage/di"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/infra"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/infra/fee"
	blockchainDI "github.com/fd1az/pool-arbitrage/business/blockchain/di"
	pricingDI "github.com/fd1az/pool-arbitrage/business/pricing/di"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/monolith"
	"github.com/fd1az/pool-arbitrage/internal/network"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// TradeParams maps cfg onto the unvalidated trade parameters.
func TradeParams(cfg *config.Config, net network.Network) (domain.TradeParams, error) {
	amount, err := cfg.Arbitrage.TradeAmountDecimal()
	if err != nil {
		return domain.TradeParams{}, fmt.Errorf("arbitrage.trade_amount: %w", err)
	}

	return domain.TradeParams{
		Network:          net,
		Factory:          cfg.Uniswap.FactoryAddress,
		Router:           cfg.Uniswap.RouterAddress,
		Quoter:           cfg.Uniswap.QuoterAddress,
		MasterToken:      cfg.Arbitrage.MasterToken,
		ComparisonTokens: cfg.Arbitrage.ComparisonTokens,
		FeeTierA:         cfg.Uniswap.FeeTierA,
		FeeTierB:         cfg.Uniswap.FeeTierB,
		GasLimit:         cfg.Arbitrage.GasLimit,
		SlippagePercent:  cfg.Arbitrage.SlippagePercent,
		MinProfit:        cfg.Arbitrage.MinProfit,
		TradeAmount:      amount,
	}, nil
}

// TradeConfig builds the validated per-run snapshot from cfg.
func TradeConfig(cfg *config.Config, net network.Network) (domain.TradeConfig, error) {
	p, err := TradeParams(cfg, net)
	if err != nil {
		return domain.TradeConfig{}, err
	}
	return domain.NewTradeConfig(p)
}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register FeeEstimator (private) - selected by fee_estimation.mode
	di.RegisterToken(c, arbitrageDI.FeeEstimator, func(sr di.ServiceRegistry) app.FeeEstimator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		net := sr.Get("network").(network.Network)
		caller := blockchainDI.GetContractCaller(sr)
		fe := cfg.FeeEstimation

		switch fe.Mode {
		case config.FeeModeStatic:
			return fee.NewStatic(fe.StaticFee)

		case config.FeeModeOnchain:
			return fee.NewOnchain(
				fee.OnchainConfig{
					Router:            common.HexToAddress(cfg.Uniswap.RouterAddress),
					ChainID:           new(big.Int).SetUint64(net.ChainID()),
					TxGasLimit:        fe.TxGasLimit,
					ConfirmTimeout:    fe.ConfirmTimeout,
					SqrtPriceDeltaBps: fe.SqrtPriceDeltaBps,
				},
				sr.Get("ethClient").(*ethclient.Client),
				caller,
				accountDI.GetAccountService(sr).Signer(),
				blockchainDI.GetNonceSource(sr),
				log,
			)

		default:
			q, err := fee.NewQuoter(caller, common.HexToAddress(cfg.Uniswap.QuoterAddress), fe.SqrtPriceDeltaBps)
			if err != nil {
				panic("failed to create quoter fee estimator: " + err.Error())
			}
			return q
		}
	})

	// Register Executor (private) - dry run only
	di.RegisterToken(c, arbitrageDI.Executor, func(sr di.ServiceRegistry) app.Executor {
		return infra.NewDryRunExecutor(sr.Get("logger").(logger.LoggerInterface))
	})

	// Register Evaluator (public)
	di.RegisterToken(c, arbitrageDI.Evaluator, func(sr di.ServiceRegistry) *app.Evaluator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		tc, err := TradeConfig(cfg, sr.Get("network").(network.Network))
		if err != nil {
			panic("invalid trade config: " + err.Error())
		}

		e, err := app.NewEvaluator(tc, pricingDI.GetPricingService(sr), arbitrageDI.GetFeeEstimator(sr), arbitrageDI.GetExecutor(sr), log)
		if err != nil {
			panic("failed to create evaluator: " + err.Error())
		}
		return e
	})

	// Register Runner (public)
	di.RegisterToken(c, arbitrageDI.Runner, func(sr di.ServiceRegistry) *app.Runner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewRunner(
			arbitrageDI.GetEvaluator(sr),
			blockchainDI.GetBlockchainService(sr),
			app.RunnerConfig{
				Trigger:     cfg.Arbitrage.Trigger,
				Interval:    cfg.Arbitrage.Interval,
				MaxParallel: cfg.Arbitrage.MaxParallel,
				TxGasLimit:  cfg.FeeEstimation.TxGasLimit,
			},
			log,
		)
	})

	// Register Reporter (public) - TUI or console
	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Arbitrage.TUIMode {
			return infra.NewTUIReporter(nil)
		}
		return infra.NewConsoleReporter(nil)
	})

	return nil
}

// Startup validates the trade configuration before anything resolves the
// evaluator.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()

	tc, err := TradeConfig(cfg, mono.Network())
	if err != nil {
		return err
	}

	if hs := mono.Health(); hs != nil {
		runner := arbitrageDI.GetRunner(mono.Services())
		hs.RegisterCheck("runner", func(context.Context) (bool, string) {
			return true, fmt.Sprintf("skipped %d", runner.Skipped())
		})
	}

	mono.Logger().Info(ctx, "arbitrage module started",
		"pairs", len(tc.ComparisonTokens),
		"fee_mode", cfg.FeeEstimation.Mode,
		"trigger", cfg.Arbitrage.Trigger,
		"min_profit", cfg.Arbitrage.MinProfitDecimal().String(),
		"slippage_percent", cfg.Arbitrage.SlippageDecimal().String(),
		"trade_amount", tc.TradeAmount.String(),
	)
	return nil
}
