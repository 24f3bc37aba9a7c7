package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fd1az/pool-arbitrage/business/account"
	"github.com/fd1az/pool-arbitrage/business/arbitrage"
	"github.com/fd1az/pool-arbitrage/business/blockchain"
	"github.com/fd1az/pool-arbitrage/business/pricing"
	"github.com/fd1az/pool-arbitrage/internal/apm"
	"github.com/fd1az/pool-arbitrage/internal/config"
	"github.com/fd1az/pool-arbitrage/internal/di"
	"github.com/fd1az/pool-arbitrage/internal/logger"
	"github.com/fd1az/pool-arbitrage/internal/metrics"
	"github.com/fd1az/pool-arbitrage/internal/monolith"
)

// application is everything a command needs after configuration.
type application struct {
	cfg     *config.Config
	log     *logger.Logger
	modules []monolith.Module
	mono    interface {
		monolith.Monolith
		StartModules(context.Context, ...monolith.Module) error
		Close(context.Context) error
	}
	closers []func()
}

func (a *application) services() di.ServiceRegistry {
	return a.mono.Services()
}

func (a *application) start(ctx context.Context) error {
	if err := a.mono.StartModules(ctx, a.modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return nil
}

func (a *application) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if a.mono != nil {
		_ = a.mono.Close(ctx)
	}
	_ = a.log.Sync()
}

// bootstrap loads configuration, wires telemetry and registers every module.
// In TUI mode logs are discarded so they do not tear the screen.
func bootstrap(ctx context.Context, tuiMode bool) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Arbitrage.TUIMode = tuiMode

	var out io.Writer = os.Stderr
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting pool arbitrage evaluator",
		"version", version,
		"environment", cfg.App.Environment,
		"network", cfg.Chain.Network,
	)

	a := &application{cfg: cfg, log: log}

	tp, err := apm.NewTraceProvider(ctx, apm.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.Endpoint,
		Headers:     cfg.Telemetry.Headers,
		SampleRate:  cfg.Telemetry.SampleRate,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	a.closers = append(a.closers, func() { _ = tp.Stop() })

	if cfg.Telemetry.Enabled {
		mp, err := metrics.NewMeterProvider(ctx, metrics.Config{ServiceName: cfg.Telemetry.ServiceName})
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("failed to init metrics: %w", err)
		}
		a.closers = append(a.closers, func() { _ = mp.Shutdown(context.Background()) })

		if port := cfg.Telemetry.PrometheusPort; port > 0 {
			go func() {
				if err := mp.Serve(ctx, port, log); err != nil {
					log.Error(ctx, "metrics server stopped", "error", err)
				}
			}()
		}
	}

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	a.mono = mono

	// Dependency order: account and blockchain first, arbitrage last.
	a.modules = []monolith.Module{
		&account.Module{},
		&blockchain.Module{},
		&pricing.Module{},
		&arbitrage.Module{},
	}
	if err := mono.RegisterModules(a.modules...); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}

	return a, nil
}
