package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PoolRow is the latest observation of one pool of one pair.
type PoolRow struct {
	Pair      string
	Label     string
	Pool      string
	FeeTier   uint32
	Price     string
	Fee       string
	FeeFailed bool
}

// PoolsComponent renders the latest pool prices per pair.
type PoolsComponent struct {
	rows map[string][2]PoolRow
	gas  string
}

// NewPoolsComponent creates an empty pools component.
func NewPoolsComponent() *PoolsComponent {
	return &PoolsComponent{rows: make(map[string][2]PoolRow)}
}

// Set replaces the rows for pair.
func (p *PoolsComponent) Set(pair string, a, b PoolRow) {
	p.rows[pair] = [2]PoolRow{a, b}
}

// SetGas sets the display-only gas cost line.
func (p *PoolsComponent) SetGas(gas string) {
	p.gas = gas
}

// View renders the pools table, pairs in name order.
func (p *PoolsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("POOLS"))
	b.WriteString("\n\n")

	if len(p.rows) == 0 {
		b.WriteString(dimStyle.Render("  Waiting for pool data..."))
		return b.String()
	}

	pairs := make([]string, 0, len(p.rows))
	for pair := range p.rows {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	b.WriteString(fmt.Sprintf("  %-14s  %-2s  %-12s  %6s  %16s  %9s\n",
		"Pair", "", "Pool", "Tier", "Price", "Fee"))
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 68)))
	b.WriteString("\n")

	for _, pair := range pairs {
		for i, row := range p.rows[pair] {
			name := ""
			if i == 0 {
				name = truncate(pair, 14)
			}
			fee := row.Fee
			if row.FeeFailed {
				fee = warnStyle.Render(fmt.Sprintf("%9s", "n/a"))
			} else {
				fee = fmt.Sprintf("%9s", fee)
			}
			b.WriteString(fmt.Sprintf("  %-14s  %-2s  %-12s  %6d  %16s  %s\n",
				name, row.Label, row.Pool, row.FeeTier, row.Price, fee))
		}
	}

	if p.gas != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Gas (display only): " + p.gas))
	}
	return b.String()
}
