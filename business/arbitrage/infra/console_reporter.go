// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

var _ app.Reporter = (*ConsoleReporter)(nil)

const rule = "================================================================================"

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to w, or stdout when w is nil.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleReporter{out: w}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "Pool Arbitrage Evaluator Started")
	fmt.Fprintln(r.out, "================================")
	return nil
}

// Report prints one evaluation block. Failed evaluations get a single line
// tagged with the error's code.
func (r *ConsoleReporter) Report(eval *domain.Evaluation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if eval.Err != nil {
		fmt.Fprintf(r.out, "[%s] %-8s block #%d %s: %v\n",
			eval.Timestamp.Format("15:04:05"),
			"["+apperror.Label(eval.Err)+"]",
			eval.BlockNumber,
			eval.PairLabel(),
			eval.Err,
		)
		return
	}

	d := eval.Decision
	title := "NO OPPORTUNITY"
	if d.Profitable {
		title = "ARBITRAGE OPPORTUNITY DETECTED"
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Block:          #%d\n", eval.BlockNumber)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", eval.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:           %s\n", eval.PairLabel())
	fmt.Fprintf(r.out, "Trade Size:     %s\n", eval.TradeSize.String())
	if eval.GasCost != nil {
		fmt.Fprintf(r.out, "Gas (display):  %s native\n", eval.GasCost.Native.StringFixed(6))
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "POOLS")
	writePool(r.out, eval.PoolA)
	writePool(r.out, eval.PoolB)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "DIRECTIONS")
	writeDirection(r.out, d.AToB)
	writeDirection(r.out, d.BToA)
	if eval.ExecutionErr != nil {
		fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
		fmt.Fprintf(r.out, "[%s] %v\n", apperror.Label(eval.ExecutionErr), eval.ExecutionErr)
	}
	fmt.Fprintln(r.out, rule)
}

func writePool(w io.Writer, side domain.PoolSide) {
	q := side.Quote
	fee := fmt.Sprintf("%.4f%%", side.Fee.Fraction*100)
	if side.Fee.Failed {
		fee = "n/a"
	}
	fmt.Fprintf(w, "  %s  %s  tier %-6d  price %-18s  fee %s\n",
		side.Label,
		shortAddress(q.Pool().Hex()),
		q.FeeTier(),
		formatFloat(q.Price()),
		fee,
	)
	if side.FeeErr != nil {
		fmt.Fprintf(w, "     [%s] %v\n", apperror.Label(side.FeeErr), side.FeeErr)
	}
}

func writeDirection(w io.Writer, d domain.DirectionResult) {
	status := "not profitable"
	switch {
	case d.EstimationFailed:
		status = "estimation failed"
	case d.Profitable:
		status = "PROFITABLE"
	}
	fmt.Fprintf(w, "  %-4s cost %-14s margin %-14s %s\n",
		d.Direction.Short(),
		formatFloat(d.Cost),
		formatFloat(d.Margin),
		status,
	)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.8g", f)
}

func shortAddress(hex string) string {
	if len(hex) < 10 {
		return hex
	}
	return hex[:6] + "…" + hex[len(hex)-4:]
}

// UpdateConnectionStatus outputs connection status changes.
func (r *ConsoleReporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := "disconnected"
	if connected {
		status = fmt.Sprintf("connected (%s)", latency)
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), name, status)
}

// Stop prints the closing line.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Pool Arbitrage Evaluator Stopped")
	return nil
}
