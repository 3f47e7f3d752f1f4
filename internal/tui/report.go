package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/core"
	"github.com/janekbaraniewski/napkinwire/internal/usage"
)

const reportGaugeWidth = 30

// RenderSummary renders the one-shot summary report: styled status line,
// remaining-time gauge, and the labeled summary rows.
func RenderSummary(report core.UsageReport, now time.Time) string {
	s := usage.BuildSummary(report, now)
	w := report.Window

	var b strings.Builder
	b.WriteString(headerBrandStyle.Render("napkinwire"))
	b.WriteString(headerStyle.Render(" · usage"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Window    "))
	b.WriteString(statusStyle(w.Status).Render(statusText(w.Status)))
	if report.SourceError != "" {
		b.WriteString(dimStyle.Render("  (" + report.SourceError + ")"))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Remaining "))
	b.WriteString(RenderGauge(remainingPercent(w), reportGaugeWidth, 0.3, 0.1))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Started", s.WindowStarted},
		{"Elapsed", s.TimeElapsed},
		{"Remaining", s.TimeRemaining},
		{"Messages", fmt.Sprintf("%d", s.MessagesThisWindow)},
	}
	if s.CurrentBurnRate != "" {
		rows = append(rows, [2]string{"Burn rate", s.CurrentBurnRate})
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", row[0])))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(valueStyle.Render(s.Recommendation))
	b.WriteString("\n")
	return b.String()
}

// RenderDetailed renders the detailed projection: model breakdown, patterns,
// session analysis, and recommendations.
func RenderDetailed(report core.UsageReport) string {
	d := usage.BuildDetailed(report)

	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(
		fmt.Sprintf("Model usage (%d messages analyzed)", d.TotalMessagesAnalyzed)))
	b.WriteString("\n")
	for _, model := range usage.SortedModels(report.ModelUsage) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", model)))
		b.WriteString(valueStyle.Render(d.ModelUsageBreakdown[model]))
		b.WriteString("\n")
	}

	if len(d.UsagePatterns) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHeaderStyle.Render("Patterns"))
		b.WriteString("\n")
		for _, p := range d.UsagePatterns {
			b.WriteString(valueStyle.Render("- " + p))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Avg interval "))
	b.WriteString(valueStyle.Render(d.SessionAnalysis.AverageMessageInterval))
	b.WriteString("\n")
	if d.SessionAnalysis.PeakUsageDetected {
		b.WriteString(statusExpiredStyle.Render("Peak usage detected"))
		b.WriteString("\n")
	}

	if len(d.Recommendations) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHeaderStyle.Render("Recommendations"))
		b.WriteString("\n")
		for _, r := range d.Recommendations {
			b.WriteString(valueStyle.Render("- " + r))
			b.WriteString("\n")
		}
	}
	return b.String()
}
