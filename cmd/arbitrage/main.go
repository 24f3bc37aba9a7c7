// Package main is the entry point for the pool arbitrage evaluator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pool-arbitrage",
	Short: "Evaluate cross-pool arbitrage between two fee tiers",
	Long: `pool-arbitrage reads the same token pair from two concentrated-liquidity
pools, estimates each pool's fee and decides whether buying in one pool and
selling in the other clears the configured costs.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")
	rootCmd.AddCommand(runCmd, evaluateCmd, deriveAddressCmd, validateCmd)
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
