package core

import "time"

// WindowStatus is the terminal state of a usage-window computation.
type WindowStatus string

const (
	StatusActive     WindowStatus = "active"
	StatusInCooldown WindowStatus = "in_cooldown"
	StatusExpired    WindowStatus = "expired"
	StatusUnknown    WindowStatus = "unknown"
)

const (
	// WindowDuration is the length of one usage window.
	WindowDuration = 5 * time.Hour
	// CooldownDuration follows a rate-limit event; no new window may start inside it.
	CooldownDuration = 5 * time.Hour
)

// LogEntry is one parsed log line. Timestamp is nil when the line carried no
// parsable instant; such entries are kept for classification but excluded from
// temporal reasoning.
type LogEntry struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Level     string     `json:"level,omitempty"`
	Message   string     `json:"message"`
	Raw       string     `json:"raw"`
}

// UsageWindow is an immutable snapshot of the reconstructed usage window.
// Build it through the per-branch constructors below so that a status=active
// window always carries a start time.
type UsageWindow struct {
	WindowStarted    *time.Time   `json:"window_started,omitempty"`
	TimeElapsed      int64        `json:"time_elapsed_seconds"`
	EstimatedRemains int64        `json:"estimated_remaining_seconds"`
	MessagesInWindow int          `json:"messages_this_window"`
	Status           WindowStatus `json:"status"`
	DebugInfo        string       `json:"debug_info,omitempty"`
}

// ActiveWindow builds an active window anchored at start. Elapsed and remaining
// are derived from now; callers must have verified elapsed <= WindowDuration.
func ActiveWindow(start, now time.Time, messages int, debug string) UsageWindow {
	elapsed := int64(now.Sub(start).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := int64(WindowDuration.Seconds()) - elapsed
	if remaining < 0 {
		remaining = 0
	}
	s := start
	return UsageWindow{
		WindowStarted:    &s,
		TimeElapsed:      elapsed,
		EstimatedRemains: remaining,
		MessagesInWindow: messages,
		Status:           StatusActive,
		DebugInfo:        debug,
	}
}

// CooldownWindow reports a still-cooling-down state: no window, no remaining time.
func CooldownWindow(debug string) UsageWindow {
	return UsageWindow{
		Status:    StatusInCooldown,
		DebugInfo: debug,
	}
}

// ExpiredWindow reports a window that outlived its duration. Start is retained
// so callers can see when the expired session began.
func ExpiredWindow(start, now time.Time, messages int, debug string) UsageWindow {
	elapsed := int64(now.Sub(start).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	s := start
	return UsageWindow{
		WindowStarted:    &s,
		TimeElapsed:      elapsed,
		MessagesInWindow: messages,
		Status:           StatusExpired,
		DebugInfo:        debug,
	}
}

// UnknownWindow reports that no boundary could be determined. Remaining is the
// full window so downstream consumers never under-report available time.
func UnknownWindow(debug string) UsageWindow {
	return UsageWindow{
		EstimatedRemains: int64(WindowDuration.Seconds()),
		Status:           StatusUnknown,
		DebugInfo:        debug,
	}
}

// ModelUsage maps model identifier (plus the "unknown" bucket) to entry count,
// accumulated over all parsed entries regardless of window membership.
type ModelUsage map[string]int

// UnknownModel is the tally bucket for entries with no recognizable model token.
const UnknownModel = "unknown"

// UsageReport is the full per-invocation analysis result.
type UsageReport struct {
	Window     UsageWindow `json:"window"`
	ModelUsage ModelUsage  `json:"model_usage"`
	Entries    int         `json:"entries_parsed"`
	Files      int         `json:"files_scanned"`
	// SourceError is set when the log source was unavailable; the window is
	// then a fully-populated default rather than an error.
	SourceError string `json:"source_error,omitempty"`
}
