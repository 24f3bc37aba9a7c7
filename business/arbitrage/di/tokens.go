// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	"github.com/fd1az/pool-arbitrage/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Evaluator = di.NewToken[*app.Evaluator]("arbitrage.Evaluator")
	Runner    = di.NewToken[*app.Runner]("arbitrage.Runner")
	Reporter  = di.NewToken[app.Reporter]("arbitrage.Reporter")
)

// Private dependency tokens - internal to arbitrage module
var (
	FeeEstimator = di.NewToken[app.FeeEstimator]("arbitrage:feeEstimator")
	Executor     = di.NewToken[app.Executor]("arbitrage:executor")
)

// Helper functions for type-safe access
func GetEvaluator(c di.ServiceRegistry) *app.Evaluator {
	return di.GetToken(c, Evaluator)
}

func GetRunner(c di.ServiceRegistry) *app.Runner {
	return di.GetToken(c, Runner)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetFeeEstimator(c di.ServiceRegistry) app.FeeEstimator {
	return di.GetToken(c, FeeEstimator)
}

func GetExecutor(c di.ServiceRegistry) app.Executor {
	return di.GetToken(c, Executor)
}
