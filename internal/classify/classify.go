// Package classify holds the pure event classifiers applied to parsed log
// entries: rate-limit detection, user-message detection, and model extraction.
// All matching is case-insensitive substring matching over fixed sets; no
// classifier keeps state or depends on entry order.
package classify

import (
	"strings"

	"github.com/samber/lo"

	"github.com/janekbaraniewski/napkinwire/internal/core"
)

var rateLimitMarkers = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota exceeded",
	"usage limit",
	"429",
}

// userMarkers indicate a user-originated event. sysMarkers veto the match:
// log lines that merely quote a user message inside a system or debug record
// carry one of these and must not count as user activity.
var userMarkers = []string{
	"user message",
	"user_message",
	"human turn",
	"user input",
	"message sent",
	"conversation started",
}

var sysMarkers = []string{
	"system",
	"assistant",
	"debug",
	"internal",
	"telemetry",
}

// modelTokens maps recognizable model-name substrings to the canonical
// identifier reported in the usage tally. Longer, more specific tokens first.
var modelTokens = []struct {
	token string
	model string
}{
	{"claude-3-5-sonnet", "sonnet"},
	{"claude-3-opus", "opus"},
	{"claude-3-haiku", "haiku"},
	{"opus", "opus"},
	{"sonnet", "sonnet"},
	{"haiku", "haiku"},
}

// RateLimited reports whether the entry records an upstream throttling event.
func RateLimited(entry core.LogEntry) bool {
	msg := strings.ToLower(entry.Message)
	return lo.SomeBy(rateLimitMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
}

// UserMessage reports whether the entry represents an action initiated by the
// human user. The filter is two-sided: at least one user marker must match and
// no system/assistant/debug marker may appear.
func UserMessage(entry core.LogEntry) bool {
	msg := strings.ToLower(entry.Message)

	positive := lo.SomeBy(userMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
	if !positive {
		return false
	}

	vetoed := lo.SomeBy(sysMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
	return !vetoed
}

// ModelName extracts a canonical model identifier from the entry's message or
// raw payload. Empty string means no known model token was found; callers
// tally those under core.UnknownModel.
func ModelName(entry core.LogEntry) string {
	haystack := strings.ToLower(entry.Message + " " + entry.Raw)
	for _, mt := range modelTokens {
		if strings.Contains(haystack, mt.token) {
			return mt.model
		}
	}
	return ""
}
