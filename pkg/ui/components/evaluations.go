// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EvaluationRow is one evaluation in the history table.
type EvaluationRow struct {
	Time        string
	BlockNumber uint64
	Pair        string
	Direction   string
	Cost        string
	Margin      string
	Status      string
	Profitable  bool
	Failed      bool
}

// EvaluationsComponent renders the most recent evaluations, newest first.
type EvaluationsComponent struct {
	rows    []EvaluationRow
	maxRows int
	visible int
	offset  int
}

// NewEvaluationsComponent keeps maxRows rows and shows visible of them.
func NewEvaluationsComponent(maxRows, visible int) *EvaluationsComponent {
	return &EvaluationsComponent{
		rows:    make([]EvaluationRow, 0, maxRows),
		maxRows: maxRows,
		visible: visible,
	}
}

// Add prepends row, dropping the oldest past maxRows.
func (c *EvaluationsComponent) Add(row EvaluationRow) {
	c.rows = append([]EvaluationRow{row}, c.rows...)
	if len(c.rows) > c.maxRows {
		c.rows = c.rows[:c.maxRows]
	}
	if c.offset > 0 {
		c.offset++
	}
	c.clampOffset()
}

// Clear removes every row.
func (c *EvaluationsComponent) Clear() {
	c.rows = c.rows[:0]
	c.offset = 0
}

// Len returns the number of stored rows.
func (c *EvaluationsComponent) Len() int {
	return len(c.rows)
}

func (c *EvaluationsComponent) ScrollUp() {
	if c.offset > 0 {
		c.offset--
	}
}

func (c *EvaluationsComponent) ScrollDown() {
	c.offset++
	c.clampOffset()
}

func (c *EvaluationsComponent) clampOffset() {
	limit := len(c.rows) - c.visible
	if limit < 0 {
		limit = 0
	}
	if c.offset > limit {
		c.offset = limit
	}
}

// View renders the evaluations table.
func (c *EvaluationsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	profitableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("EVALUATIONS (%d)", len(c.rows))))
	b.WriteString("\n\n")

	if len(c.rows) == 0 {
		b.WriteString(dimStyle.Render("  No evaluations yet..."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %-8s  %9s  %-14s  %-4s  %12s  %12s  %s\n",
		"Time", "Block", "Pair", "Dir", "Cost", "Margin", "Status"))
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 78)))
	b.WriteString("\n")

	end := c.offset + c.visible
	if end > len(c.rows) {
		end = len(c.rows)
	}
	for _, row := range c.rows[c.offset:end] {
		style := dimStyle
		switch {
		case row.Failed:
			style = failedStyle
		case row.Profitable:
			style = profitableStyle
		}
		b.WriteString(fmt.Sprintf("  %-8s  %9d  %-14s  %-4s  %12s  %12s  %s\n",
			row.Time,
			row.BlockNumber,
			truncate(row.Pair, 14),
			row.Direction,
			row.Cost,
			row.Margin,
			style.Render(row.Status),
		))
	}

	if len(c.rows) > c.visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  showing %d-%d of %d", c.offset+1, end, len(c.rows))))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
