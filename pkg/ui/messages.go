// Package ui provides the Bubble Tea dashboard for the evaluator.
package ui

import (
	"time"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
)

// EvaluationMsg carries one pair's result for one run.
type EvaluationMsg struct {
	Evaluation *domain.Evaluation
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// BlockMsg is sent when a run is triggered.
type BlockMsg struct {
	Number    uint64
	Timestamp time.Time
}

// GasPriceMsg is sent when gas price is updated.
type GasPriceMsg struct {
	GweiPrice float64
}

// ErrorMsg is sent when an error occurs outside an evaluation.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string
	Status  string // "connecting", "connected", "done", "failed"
	Message string
}
