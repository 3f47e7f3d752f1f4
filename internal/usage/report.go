package usage

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/core"
)

// SummaryReport is the human-facing condensed projection of a UsageReport.
type SummaryReport struct {
	Status             string `json:"status,omitempty"`
	WindowStatus       string `json:"window_status"`
	WindowStarted      string `json:"window_started"`
	TimeElapsed        string `json:"time_elapsed"`
	TimeRemaining      string `json:"time_remaining"`
	MessagesThisWindow int    `json:"messages_this_window"`
	CurrentBurnRate    string `json:"current_burn_rate"`
	Recommendation     string `json:"recommendation"`
}

// DetailedReport adds model breakdowns and pattern analysis.
type DetailedReport struct {
	ModelUsageBreakdown   map[string]string `json:"model_usage_breakdown"`
	TotalMessagesAnalyzed int               `json:"total_messages_analyzed"`
	UsagePatterns         []string          `json:"usage_patterns"`
	SessionAnalysis       SessionAnalysis   `json:"session_analysis"`
	Recommendations       []string          `json:"recommendations"`
	RawData               RawWindowData     `json:"raw_data"`
}

type SessionAnalysis struct {
	AverageMessageInterval string `json:"average_message_interval"`
	PeakUsageDetected      bool   `json:"peak_usage_detected"`
}

type RawWindowData struct {
	WindowStarted             string `json:"window_started,omitempty"`
	TimeElapsedSeconds        int64  `json:"time_elapsed_seconds"`
	EstimatedRemainingSeconds int64  `json:"estimated_remaining_seconds"`
}

// BuildSummary projects a report into its summary form.
func BuildSummary(report core.UsageReport, now time.Time) SummaryReport {
	if report.SourceError != "" {
		return SummaryReport{
			Status:         "error",
			WindowStatus:   "Unknown",
			WindowStarted:  "Unknown",
			TimeElapsed:    FormatDuration(0),
			TimeRemaining:  FormatDuration(report.Window.EstimatedRemains),
			Recommendation: "Unable to analyze assistant logs: " + report.SourceError,
		}
	}

	w := report.Window

	burnRate := "No activity"
	if w.TimeElapsed > 0 && w.MessagesInWindow > 0 {
		perHour := float64(w.MessagesInWindow) / float64(w.TimeElapsed) * 3600
		burnRate = fmt.Sprintf("%.1f messages/hour", math.Round(perHour*10)/10)
	}

	started := "Unknown"
	if w.WindowStarted != nil {
		started = FormatRelative(*w.WindowStarted, now)
	}

	recommendation := "Consider slowing down usage"
	if w.EstimatedRemains > 3600 {
		recommendation = "You're in good shape!"
	}

	return SummaryReport{
		WindowStatus:       windowStatusLabel(w.Status),
		WindowStarted:      started,
		TimeElapsed:        FormatDuration(w.TimeElapsed),
		TimeRemaining:      FormatDuration(w.EstimatedRemains),
		MessagesThisWindow: w.MessagesInWindow,
		CurrentBurnRate:    burnRate,
		Recommendation:     recommendation,
	}
}

// BuildDetailed projects a report into its detailed form.
func BuildDetailed(report core.UsageReport) DetailedReport {
	w := report.Window

	total := 0
	for _, count := range report.ModelUsage {
		total += count
	}

	breakdown := make(map[string]string, len(report.ModelUsage))
	for model, count := range report.ModelUsage {
		if total > 0 {
			pct := math.Round(float64(count)/float64(total)*1000) / 10
			breakdown[model] = fmt.Sprintf("%d messages (%.1f%%)", count, pct)
		} else {
			breakdown[model] = fmt.Sprintf("%d messages", count)
		}
	}

	var patterns []string
	if w.TimeElapsed > 0 && w.MessagesInWindow > 0 {
		avgInterval := float64(w.TimeElapsed) / float64(w.MessagesInWindow)
		switch {
		case avgInterval < 60:
			patterns = append(patterns, "High intensity usage detected")
		case avgInterval < 300:
			patterns = append(patterns, "Moderate usage pattern")
		default:
			patterns = append(patterns, "Light usage pattern")
		}
	}

	var recommendations []string
	switch {
	case w.EstimatedRemains < 1800:
		recommendations = append(recommendations, "Usage window expires soon - consider wrapping up current tasks")
	case w.EstimatedRemains < 3600:
		recommendations = append(recommendations, "About 1 hour remaining in current window")
	default:
		recommendations = append(recommendations, "Plenty of time remaining in current usage window")
	}
	if w.MessagesInWindow > 100 {
		recommendations = append(recommendations, "High message count - consider consolidating requests")
	}

	avgInterval := int64(0)
	if w.MessagesInWindow > 0 {
		avgInterval = w.TimeElapsed / int64(w.MessagesInWindow)
	}

	raw := RawWindowData{
		TimeElapsedSeconds:        w.TimeElapsed,
		EstimatedRemainingSeconds: w.EstimatedRemains,
	}
	if w.WindowStarted != nil {
		raw.WindowStarted = w.WindowStarted.Format(time.RFC3339)
	}

	return DetailedReport{
		ModelUsageBreakdown:   breakdown,
		TotalMessagesAnalyzed: total,
		UsagePatterns:         patterns,
		SessionAnalysis: SessionAnalysis{
			AverageMessageInterval: fmt.Sprintf("%d seconds", avgInterval),
			PeakUsageDetected:      w.MessagesInWindow > 50,
		},
		Recommendations: recommendations,
		RawData:         raw,
	}
}

// SortedModels returns the tally's model names, highest count first, for
// stable rendering.
func SortedModels(tally core.ModelUsage) []string {
	models := make([]string, 0, len(tally))
	for m := range tally {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool {
		if tally[models[i]] != tally[models[j]] {
			return tally[models[i]] > tally[models[j]]
		}
		return models[i] < models[j]
	})
	return models
}

func windowStatusLabel(status core.WindowStatus) string {
	switch status {
	case core.StatusActive:
		return "Active"
	case core.StatusInCooldown:
		return "In cooldown"
	case core.StatusExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// FormatDuration renders seconds as "2 hours, 30 minutes". Seconds appear
// only under an hour, matching the original report formatting.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0 seconds"
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minute%s", minutes, plural(minutes)))
	}
	if secs > 0 && hours == 0 {
		parts = append(parts, fmt.Sprintf("%d second%s", secs, plural(secs)))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}

// FormatRelative renders an instant as "N minutes/hours/days ago".
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Hour:
		m := int64(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", m, plural(m))
	case diff < 24*time.Hour:
		h := int64(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", h, plural(h))
	default:
		d := int64(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", d, plural(d))
	}
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
