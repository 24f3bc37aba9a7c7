package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/internal/logger"
)

// Run triggers.
const (
	TriggerBlock    = "block"
	TriggerInterval = "interval"
)

// RunnerConfig holds configuration for the Runner.
type RunnerConfig struct {
	Trigger     string
	Interval    time.Duration
	MaxParallel int
	TxGasLimit  uint64 // used to price the displayed gas cost
	BufferSize  int
}

// Runner drives evaluations of every configured pair, once per new block or
// per interval, and delivers results on a channel. A trigger that arrives
// while the previous run is still in flight is skipped.
type Runner struct {
	evaluator *Evaluator
	chain     ChainSource
	pairs     []domain.Pair
	config    RunnerConfig
	logger    logger.LoggerInterface

	running atomic.Bool
	started atomic.Bool
	skipped atomic.Int64
}

// NewRunner creates a Runner over the evaluator's configured pairs.
func NewRunner(evaluator *Evaluator, chain ChainSource, cfg RunnerConfig, log logger.LoggerInterface) *Runner {
	if cfg.MaxParallel < 1 {
		cfg.MaxParallel = 1
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 64
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 12 * time.Second
	}
	return &Runner{
		evaluator: evaluator,
		chain:     chain,
		pairs:     evaluator.Config().Pairs(),
		config:    cfg,
		logger:    log,
	}
}

// Skipped returns how many triggers were dropped because a run was in flight.
func (r *Runner) Skipped() int64 {
	return r.skipped.Load()
}

// Start begins triggering runs. The returned channel is closed once ctx is
// done and the in-flight run has drained.
func (r *Runner) Start(ctx context.Context) (<-chan *domain.Evaluation, error) {
	if !r.started.CompareAndSwap(false, true) {
		return nil, apperror.New(apperror.CodeInvalidInput, apperror.WithContext("runner already started"))
	}

	triggers, err := r.triggers(ctx)
	if err != nil {
		r.started.Store(false)
		return nil, err
	}

	results := make(chan *domain.Evaluation, r.config.BufferSize)
	go r.loop(ctx, triggers, results)

	r.logger.Info(ctx, "runner started",
		"trigger", r.config.Trigger,
		"pairs", len(r.pairs),
		"max_parallel", r.config.MaxParallel,
	)
	return results, nil
}

func (r *Runner) loop(ctx context.Context, triggers <-chan uint64, results chan<- *domain.Evaluation) {
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(results)
	}()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "runner stopping", "reason", ctx.Err())
			return
		case block, ok := <-triggers:
			if !ok {
				return
			}
			if !r.running.CompareAndSwap(false, true) {
				r.skipped.Add(1)
				r.logger.Debug(ctx, "run in flight, trigger skipped", "block", block)
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer r.running.Store(false)

				for _, eval := range r.RunOnce(ctx, block) {
					select {
					case results <- eval:
					case <-ctx.Done():
						return
					}
				}
			}()
		}
	}
}

// triggers adapts the configured trigger into a stream of block numbers.
func (r *Runner) triggers(ctx context.Context) (<-chan uint64, error) {
	out := make(chan uint64, 1)

	if r.config.Trigger == TriggerInterval {
		go func() {
			defer close(out)
			ticker := time.NewTicker(r.config.Interval)
			defer ticker.Stop()

			for {
				var number uint64
				if b, err := r.chain.LatestBlock(ctx); err == nil {
					number = b.Number
				}
				select {
				case out <- number:
				case <-ctx.Done():
					return
				}

				select {
				case <-ticker.C:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out, nil
	}

	blocks, err := r.chain.SubscribeBlocks(ctx)
	if err != nil {
		return nil, err
	}
	go func() {
		defer close(out)
		for {
			select {
			case b, ok := <-blocks:
				if !ok {
					return
				}
				if b == nil {
					continue
				}
				select {
				case out <- b.Number:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RunOnce evaluates every pair for blockNumber with at most MaxParallel
// pairs in flight. Results keep pair order.
func (r *Runner) RunOnce(ctx context.Context, blockNumber uint64) []*domain.Evaluation {
	var gasCost *domain.GasCost
	if gp, err := r.chain.GasPrice(ctx); err != nil {
		r.logger.Debug(ctx, "gas price unavailable", "error", err)
	} else if gp != nil {
		gasCost = domain.NewGasCost(r.config.TxGasLimit, gp.Wei)
	}

	out := make([]*domain.Evaluation, len(r.pairs))

	var g errgroup.Group
	g.SetLimit(r.config.MaxParallel)
	for i, pair := range r.pairs {
		g.Go(func() error {
			eval, _ := r.evaluator.EvaluatePair(ctx, pair, blockNumber)
			eval.GasCost = gasCost
			out[i] = eval
			return nil
		})
	}
	_ = g.Wait()

	return out
}
