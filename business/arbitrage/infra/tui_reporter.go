package infra

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/app"
	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/pkg/ui"
)

var _ app.Reporter = (*TUIReporter)(nil)

// Sender delivers messages to a running Bubble Tea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

type sendFunc func(tea.Msg)

func (f sendFunc) Send(msg tea.Msg) { f(msg) }

// TUIReporter implements Reporter by forwarding to the dashboard.
type TUIReporter struct {
	sender Sender
}

// NewTUIReporter creates a reporter over sender. A nil sender uses ui.Send.
func NewTUIReporter(sender Sender) *TUIReporter {
	if sender == nil {
		sender = sendFunc(ui.Send)
	}
	return &TUIReporter{sender: sender}
}

// Start marks the evaluator step done on the startup screen.
func (r *TUIReporter) Start(ctx context.Context) error {
	r.sender.Send(ui.StartupMsg{Step: "evaluator", Status: "done"})
	return nil
}

// Report forwards the run marker once per block, then the evaluation.
func (r *TUIReporter) Report(eval *domain.Evaluation) {
	if eval.Pair.Index == 0 {
		r.sender.Send(ui.BlockMsg{Number: eval.BlockNumber, Timestamp: eval.Timestamp})
		if eval.GasCost != nil && eval.GasCost.GasPrice != nil {
			gwei, _ := eval.GasCost.GasPrice.Float64()
			r.sender.Send(ui.GasPriceMsg{GweiPrice: gwei / 1e9})
		}
	}
	r.sender.Send(ui.EvaluationMsg{Evaluation: eval})
}

// UpdateConnectionStatus sends connection status to the TUI.
func (r *TUIReporter) UpdateConnectionStatus(name string, connected bool, latency time.Duration) {
	r.sender.Send(ui.ConnectionStatusMsg{Name: name, Connected: connected, Latency: latency})
}

// Stop is a no-op; the program is owned by main.
func (r *TUIReporter) Stop() error {
	return nil
}
