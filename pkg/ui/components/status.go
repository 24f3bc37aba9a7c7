package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents a connection's status.
type ConnectionStatus struct {
	Name       string
	Connected  bool
	Latency    time.Duration
	LastUpdate time.Time
}

// StatusComponent renders connection status in arrival order.
type StatusComponent struct {
	connections []ConnectionStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		connections: make([]ConnectionStatus, 0),
	}
}

// Update updates a connection's status.
func (s *StatusComponent) Update(status ConnectionStatus) {
	for i, conn := range s.connections {
		if conn.Name == status.Name {
			s.connections[i] = status
			return
		}
	}
	s.connections = append(s.connections, status)
}

// Connected reports whether name is known and connected.
func (s *StatusComponent) Connected(name string) bool {
	for _, conn := range s.connections {
		if conn.Name == name {
			return conn.Connected
		}
	}
	return false
}

// View renders one inline entry per connection.
func (s *StatusComponent) View() string {
	if len(s.connections) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("No connections")
	}

	connected := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	disconnected := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	parts := make([]string, 0, len(s.connections))
	for _, conn := range s.connections {
		if !conn.Connected {
			parts = append(parts, disconnected.Render("○ "+conn.Name+" (disconnected)"))
			continue
		}
		label := "● " + conn.Name
		if conn.Latency > 0 {
			label += fmt.Sprintf(" (%dms)", conn.Latency.Milliseconds())
		}
		parts = append(parts, connected.Render(label))
	}
	return strings.Join(parts, "  │  ")
}
