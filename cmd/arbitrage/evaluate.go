package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/infra"
	arbitrageDI "github.com/fd1az/pool-arbitrage/business/arbitrage/di"
	blockchainDI "github.com/fd1az/pool-arbitrage/business/blockchain/di"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate every configured pair once at the latest block",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := bootstrap(ctx, false)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		if err := a.start(ctx); err != nil {
			return err
		}

		head, err := blockchainDI.GetBlockchainService(a.services()).LatestBlock(ctx)
		if err != nil {
			return fmt.Errorf("failed to read latest block: %w", err)
		}

		reporter := infra.NewConsoleReporter(cmd.OutOrStdout())
		failed := 0
		for _, eval := range arbitrageDI.GetRunner(a.services()).RunOnce(ctx, head.Number) {
			reporter.Report(eval)
			if eval.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d pair(s) could not be evaluated", failed)
		}
		return nil
	},
}
