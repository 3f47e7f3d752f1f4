// Package tui renders the live usage-window view for `napkinwire watch`.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/napkinwire/internal/core"
	"github.com/janekbaraniewski/napkinwire/internal/usage"
)

const refreshInterval = 5 * time.Second

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type reportMsg struct {
	report core.UsageReport
	at     time.Time
}

// WatchModel polls the analyzer on a fixed interval and renders the current
// usage window with a remaining-time gauge.
type WatchModel struct {
	opts usage.Options

	report    core.UsageReport
	lastCheck time.Time
	hasData   bool

	width  int
	height int

	warnThreshold float64
	critThreshold float64
}

func NewWatchModel(opts usage.Options) WatchModel {
	return WatchModel{
		opts:          opts,
		warnThreshold: 0.3,
		critThreshold: 0.1,
	}
}

func (m WatchModel) analyzeCmd() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		now := time.Now().UTC()
		opts.Now = now
		return reportMsg{report: usage.Analyze(opts), at: now}
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.analyzeCmd(), tickCmd())
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.analyzeCmd()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tea.Batch(m.analyzeCmd(), tickCmd())
	case reportMsg:
		m.report = msg.report
		m.lastCheck = msg.at
		m.hasData = true
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(headerBrandStyle.Render("napkinwire"))
	b.WriteString(headerStyle.Render(" · usage watch"))
	b.WriteString("\n\n")

	if !m.hasData {
		b.WriteString(dimStyle.Render("Analyzing assistant logs..."))
		b.WriteString("\n")
		return b.String()
	}

	w := m.report.Window

	b.WriteString(labelStyle.Render("Window   "))
	b.WriteString(statusStyle(w.Status).Render(statusText(w.Status)))
	if m.report.SourceError != "" {
		b.WriteString(dimStyle.Render("  (" + m.report.SourceError + ")"))
	}
	b.WriteString("\n")

	gaugeWidth := m.width - 20
	if gaugeWidth < 20 {
		gaugeWidth = 20
	}
	b.WriteString(labelStyle.Render("Remaining "))
	b.WriteString(RenderGauge(remainingPercent(w), gaugeWidth, m.warnThreshold, m.critThreshold))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Started", startedText(w, m.lastCheck)},
		{"Elapsed", usage.FormatDuration(w.TimeElapsed)},
		{"Remaining", usage.FormatDuration(w.EstimatedRemains)},
		{"Messages", fmt.Sprintf("%d", w.MessagesInWindow)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", row[0])))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	if len(m.report.ModelUsage) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHeaderStyle.Render("Model usage"))
		b.WriteString("\n")
		for _, model := range usage.SortedModels(m.report.ModelUsage) {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", model)))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.report.ModelUsage[model])))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"files=%d entries=%d · checked %s · r refresh · q quit",
		m.report.Files, m.report.Entries, m.lastCheck.Format("15:04:05"),
	)))
	b.WriteString("\n")
	return b.String()
}

func remainingPercent(w core.UsageWindow) float64 {
	switch w.Status {
	case core.StatusActive:
		return float64(w.EstimatedRemains) / core.WindowDuration.Seconds() * 100
	case core.StatusInCooldown, core.StatusExpired:
		return 0
	default:
		return -1
	}
}

func startedText(w core.UsageWindow, now time.Time) string {
	if w.WindowStarted == nil {
		return "unknown"
	}
	return usage.FormatRelative(*w.WindowStarted, now)
}

func statusText(s core.WindowStatus) string {
	switch s {
	case core.StatusActive:
		return "ACTIVE"
	case core.StatusInCooldown:
		return "IN COOLDOWN"
	case core.StatusExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

func statusStyle(s core.WindowStatus) lipgloss.Style {
	switch s {
	case core.StatusActive:
		return statusActiveStyle
	case core.StatusInCooldown:
		return statusCooldownStyle
	case core.StatusExpired:
		return statusExpiredStyle
	default:
		return statusUnknownStyle
	}
}
