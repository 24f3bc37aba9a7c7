package infra

import (
	"context"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

var _ app.Executor = (*DryRunExecutor)(nil)

// DryRunExecutor logs the trade a profitable evaluation would make and
// submits nothing.
type DryRunExecutor struct {
	logger logger.LoggerInterface
}

// NewDryRunExecutor creates a dry-run executor.
func NewDryRunExecutor(log logger.LoggerInterface) *DryRunExecutor {
	return &DryRunExecutor{logger: log}
}

func (e *DryRunExecutor) Execute(ctx context.Context, eval *domain.Evaluation) error {
	best := eval.Decision.Best()
	e.logger.Info(ctx, "dry run: would execute",
		"evaluation_id", eval.ID.String(),
		"pair", eval.PairLabel(),
		"block", eval.BlockNumber,
		"direction", string(best.Direction),
		"cost", best.Cost,
		"margin", best.Margin,
		"trade_size", eval.TradeSize.String(),
		"pool_a", eval.PoolA.Quote.Pool().Hex(),
		"pool_b", eval.PoolB.Quote.Pool().Hex(),
	)
	return nil
}
