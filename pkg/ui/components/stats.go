package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds counters for display.
type Stats struct {
	Runs               uint64
	Evaluations        uint64
	Profitable         uint64
	Failed             uint64
	EstimationFailures uint64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update replaces the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current counters.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	profitableRate := float64(0)
	if s.stats.Evaluations > 0 {
		profitableRate = float64(s.stats.Profitable) / float64(s.stats.Evaluations) * 100
	}

	failed := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	if s.stats.Failed > 0 {
		failed = errorStyle.Render(fmt.Sprintf("%d", s.stats.Failed))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Runs: %s  │  Evaluations: %s  │  Profitable: %s (%.1f%%)  │  Failed: %s  │  Fee estimates failed: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Runs)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Evaluations)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Profitable)),
			profitableRate,
			failed,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.EstimationFailures)),
		)
}
