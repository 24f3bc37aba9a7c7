package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	arbitrageApp "github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/pool-arbitrage/business/arbitrage/di"
	blockchainDI "github.com/fd1az/pool-arbitrage/business/blockchain/di"
	"github.com/fd1az/pool-arbitrage/pkg/ui"
)

var cliMode bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate continuously, once per block or per interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tuiMode := !cliMode

		a, err := bootstrap(ctx, tuiMode)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		if tuiMode {
			return runTUI(ctx, a)
		}
		return runCLI(ctx, a)
	},
}

func init() {
	runCmd.Flags().BoolVar(&cliMode, "cli", false, "print evaluations to stdout instead of the dashboard")
}

// serve starts the runner and reports every evaluation until ctx is done.
func serve(ctx context.Context, a *application) error {
	reporter := arbitrageDI.GetReporter(a.services())
	if err := reporter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reporter: %w", err)
	}
	defer reporter.Stop()

	reportConnection(ctx, a, reporter)

	runner := arbitrageDI.GetRunner(a.services())
	results, err := runner.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start runner: %w", err)
	}

	for eval := range results {
		reporter.Report(eval)
	}

	a.log.Info(context.Background(), "runner stopped", "skipped_triggers", runner.Skipped())
	return nil
}

func reportConnection(ctx context.Context, a *application, reporter arbitrageApp.Reporter) {
	chain := blockchainDI.GetBlockchainService(a.services())

	started := time.Now()
	_, err := chain.LatestBlock(ctx)
	reporter.UpdateConnectionStatus(a.mono.Network().String(), err == nil, time.Since(started))
}

func runCLI(ctx context.Context, a *application) error {
	if err := a.start(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "all modules started, beginning evaluation")
	return serve(ctx, a)
}

func runTUI(ctx context.Context, a *application) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(), tea.WithAltScreen(), tea.WithContext(ctx))
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
		ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connecting"})
		ui.Send(ui.StartupMsg{Step: "pricing", Status: "connecting"})

		if err := a.start(ctx); err != nil {
			ui.Send(ui.StartupMsg{Step: "ethereum", Status: "failed", Message: err.Error()})
			errCh <- err
			return
		}
		ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connected"})
		ui.Send(ui.StartupMsg{Step: "pricing", Status: "done"})

		errCh <- serve(ctx, a)
	}()

	_, runErr := p.Run()
	cancel()

	// The deferred close tears down the monolith, so in-flight
	// evaluations must drain first.
	err := waitServe(errCh, shutdownTimeout)
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return err
}

const shutdownTimeout = 10 * time.Second

// waitServe waits for the serve goroutine to report, up to timeout.
func waitServe(errCh <-chan error, timeout time.Duration) error {
	select {
	case err := <-errCh:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("evaluations still running after %s", timeout)
	}
}
