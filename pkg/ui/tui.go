package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/pool-arbitrage/business/arbitrage/domain"
	"github.com/fd1az/pool-arbitrage/internal/apperror"
	"github.com/fd1az/pool-arbitrage/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "done", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

const maxErrors = 5

var stepOrder = []string{"config", "ethereum", "pricing", "evaluator"}

// ErrorEntry is one line of the error panel.
type ErrorEntry struct {
	Label     string
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	evaluations *components.EvaluationsComponent
	pools       *components.PoolsComponent
	stats       *components.StatsComponent
	status      *components.StatusComponent

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	phase        Phase
	welcomeStart time.Time

	ready        bool
	quitting     bool
	paused       bool
	width        int
	height       int
	currentBlock uint64
	gasPrice     float64
	lastUpdate   time.Time
	errors       []ErrorEntry
	activityFeed []string

	startupSteps    map[string]*StartupStep
	startupComplete bool
	startupTime     time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorWarning)

	return Model{
		evaluations:  components.NewEvaluationsComponent(100, 12),
		pools:        components.NewPoolsComponent(),
		stats:        components.NewStatsComponent(),
		status:       components.NewStatusComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      s,
		phase:        PhaseWelcome,
		welcomeStart: now,
		errors:       make([]ErrorEntry, 0, maxErrors),
		activityFeed: make([]string, 0, 8),
		startupSteps: map[string]*StartupStep{
			"config":    {Name: "Loading configuration", Status: "pending"},
			"ethereum":  {Name: "Connecting to chain", Status: "pending"},
			"pricing":   {Name: "Resolving pools", Status: "pending"},
			"evaluator": {Name: "Starting evaluator", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m *Model) leaveWelcome() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	if OnStartModules != nil {
		go OnStartModules()
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.leaveWelcome()
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.evaluations.Clear()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Up):
			m.evaluations.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.evaluations.ScrollDown()
		case key.Matches(msg, m.keys.Errors):
			m.errors = m.errors[:0]
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.leaveWelcome()
		}
		return m, tickCmd()

	case EvaluationMsg:
		if msg.Evaluation != nil && !m.paused {
			m.applyEvaluation(msg.Evaluation)
		}

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		m.lastUpdate = time.Now()

	case BlockMsg:
		m.currentBlock = msg.Number
		stats := m.stats.Stats()
		stats.Runs++
		m.stats.Update(stats)
		m.activityFeed = addActivity(m.activityFeed, fmt.Sprintf("Run at block #%d", msg.Number))
		m.lastUpdate = time.Now()
		if m.phase == PhaseStartup {
			m.phase = PhaseDashboard
		}

	case GasPriceMsg:
		m.gasPrice = msg.GweiPrice
		m.lastUpdate = time.Now()

	case ErrorMsg:
		if msg.Error != nil {
			m.addError(msg.Error)
		}

	case LogMsg:
		m.activityFeed = addActivity(m.activityFeed, fmt.Sprintf("%s: %s", msg.Level, msg.Message))

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		if msg.Status == "failed" && msg.Message != "" {
			m.addError(fmt.Errorf("%s: %s", msg.Step, msg.Message))
		}
		m.startupComplete = true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				m.startupComplete = false
				break
			}
		}
		if m.startupComplete && m.phase == PhaseStartup {
			m.phase = PhaseDashboard
		}
	}

	return m, nil
}

func (m *Model) applyEvaluation(eval *domain.Evaluation) {
	stats := m.stats.Stats()
	stats.Evaluations++

	row := components.EvaluationRow{
		Time:        eval.Timestamp.Format("15:04:05"),
		BlockNumber: eval.BlockNumber,
		Pair:        eval.PairLabel(),
	}

	if eval.Err != nil {
		stats.Failed++
		row.Failed = true
		row.Direction = "-"
		row.Cost = "-"
		row.Margin = "-"
		row.Status = apperror.Label(eval.Err)
		m.addError(eval.Err)
	} else {
		best := eval.Decision.Best()
		row.Direction = best.Direction.Short()
		row.Cost = formatFloat(best.Cost)
		row.Margin = formatFloat(best.Margin)
		row.Profitable = eval.Decision.Profitable
		row.Status = "Not profitable"
		if row.Profitable {
			stats.Profitable++
			row.Status = "PROFITABLE"
		}

		for _, side := range []domain.PoolSide{eval.PoolA, eval.PoolB} {
			if side.FeeErr != nil {
				stats.EstimationFailures++
				m.addError(side.FeeErr)
			}
		}
		if eval.ExecutionErr != nil {
			m.addError(eval.ExecutionErr)
		}

		m.pools.Set(eval.PairLabel(), poolRow(eval.PoolA), poolRow(eval.PoolB))
		if eval.GasCost != nil {
			m.pools.SetGas(eval.GasCost.Native.StringFixed(6) + " native")
		}
	}

	m.stats.Update(stats)
	m.evaluations.Add(row)
	m.lastUpdate = time.Now()
}

func poolRow(side domain.PoolSide) components.PoolRow {
	q := side.Quote
	pool := q.Pool().Hex()
	return components.PoolRow{
		Label:     side.Label,
		Pool:      pool[:6] + "…" + pool[len(pool)-4:],
		FeeTier:   q.FeeTier(),
		Price:     formatFloat(q.Price()),
		Fee:       fmt.Sprintf("%.4f%%", side.Fee.Fraction*100),
		FeeFailed: side.Fee.Failed,
	}
}

func (m *Model) addError(err error) {
	m.errors = append(m.errors, ErrorEntry{
		Label:     apperror.Label(err),
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
	if len(m.errors) > maxErrors {
		m.errors = m.errors[len(m.errors)-maxErrors:]
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", f)
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Pool Arbitrage Evaluator "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	left := m.pools.View() + "\n\n" + m.renderActivityFeed()
	right := m.evaluations.View()

	if m.width > 120 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			BoxStyle.Width(m.width/2-2).Render(left),
			BoxStyle.Width(m.width/2-2).Render(right),
		))
	} else {
		width := m.width - 4
		if width < 40 {
			width = 40
		}
		b.WriteString(BoxStyle.Width(width).Render(left))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(width).Render(right))
	}
	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		b.WriteString(m.renderErrors())
		b.WriteString("\n")
	}

	if m.paused {
		b.WriteString(WarningValue.Bold(true).Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderErrors() string {
	var b strings.Builder
	b.WriteString(NegativeValue.Bold(true).Render("ERRORS"))
	b.WriteString(MutedValue.Render(" (e: clear)"))
	b.WriteString("\n")
	for _, e := range m.errors {
		ago := time.Since(e.Timestamp).Round(time.Second)
		b.WriteString("  ")
		b.WriteString(ErrorTag.Render(e.Label))
		b.WriteString(" ")
		b.WriteString(NegativeValue.Render(e.Message))
		b.WriteString(MutedValue.Render(fmt.Sprintf(" (%s ago)", ago)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderActivityFeed() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("LIVE ACTIVITY"))
	b.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		b.WriteString(MutedValue.Render("  Waiting for blocks..."))
		return b.String()
	}
	for _, activity := range m.activityFeed {
		if strings.Contains(activity, "block #") {
			b.WriteString(InfoValue.Render("  " + activity))
		} else {
			b.WriteString(MutedValue.Render("  " + activity))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderWelcomeScreen() string {
	dots := strings.Repeat(".", int(time.Since(m.welcomeStart).Milliseconds()/300)%4)

	var b strings.Builder
	b.WriteString("\n\n\n\n")
	b.WriteString(HeaderStyle.Render("    P O O L   A R B I T R A G E"))
	b.WriteString("\n\n")
	b.WriteString(MutedValue.Render("    cross-pool price evaluator"))
	b.WriteString("\n\n\n")
	b.WriteString(PositiveValue.Render("    Initializing" + dots))
	b.WriteString("\n\n")
	b.WriteString(MutedValue.Render("    Press any key to skip, or wait..."))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStartupScreen() string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("  Pool Arbitrage Evaluator"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("  Starting up..."))
	b.WriteString("\n\n")

	for _, k := range stepOrder {
		step, ok := m.startupSteps[k]
		if !ok {
			continue
		}

		var icon, text string
		var style lipgloss.Style
		switch step.Status {
		case "connected", "done":
			icon, text, style = "✓", "Ready", PositiveValue
		case "connecting":
			icon, text, style = m.spinner.View(), "Connecting...", WarningValue
		case "failed":
			icon, text, style = "✗", "Failed", NegativeValue
		default:
			icon, text, style = "○", "Pending", MutedValue
		}

		b.WriteString(fmt.Sprintf("  %s %s %s\n", style.Render(icon), MutedValue.Render(step.Name), style.Render(text)))
	}

	b.WriteString("\n")
	b.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", time.Since(m.startupTime).Round(time.Second))))
	b.WriteString("\n\n")
	if len(m.errors) > 0 {
		b.WriteString(m.renderErrors())
	} else {
		b.WriteString(MutedValue.Render("  Waiting for the first run..."))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if time.Since(m.lastUpdate) < 500*time.Millisecond {
		parts = append(parts, PositiveValue.Bold(true).Render(m.spinner.View()+" Evaluating"))
	}

	parts = append(parts, fmt.Sprintf("Block: #%d", m.currentBlock))
	if m.gasPrice > 0 {
		parts = append(parts, fmt.Sprintf("Gas: %.1f gwei", m.gasPrice))
	}
	parts = append(parts, m.status.View())

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes. main sets it
// to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
