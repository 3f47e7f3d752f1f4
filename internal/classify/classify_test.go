package classify

import (
	"testing"

	"github.com/janekbaraniewski/napkinwire/internal/core"
)

func msgEntry(message string) core.LogEntry {
	return core.LogEntry{Message: message, Raw: message}
}

func TestRateLimited(t *testing.T) {
	positives := []string{
		"Rate limit exceeded",
		"error: rate_limit_error from upstream",
		"HTTP 429 returned",
		"Too Many Requests",
		"usage limit reached for this period",
		"quota exceeded, backing off",
	}
	for _, msg := range positives {
		if !RateLimited(msgEntry(msg)) {
			t.Errorf("RateLimited(%q) = false, want true", msg)
		}
	}

	negatives := []string{
		"request completed in 42ms",
		"user message sent",
		"",
	}
	for _, msg := range negatives {
		if RateLimited(msgEntry(msg)) {
			t.Errorf("RateLimited(%q) = true, want false", msg)
		}
	}
}

func TestUserMessage_TwoSidedFilter(t *testing.T) {
	positives := []string{
		"User message sent",
		"human turn started",
		"conversation started with new session",
		"user input received",
	}
	for _, msg := range positives {
		if !UserMessage(msgEntry(msg)) {
			t.Errorf("UserMessage(%q) = false, want true", msg)
		}
	}

	// Lines quoting user content inside system/debug records must not count.
	vetoed := []string{
		"debug: user message replay for context",
		"system echoing user_message payload",
		"assistant received user input",
		"telemetry: message sent counter incremented",
	}
	for _, msg := range vetoed {
		if UserMessage(msgEntry(msg)) {
			t.Errorf("UserMessage(%q) = true, want vetoed", msg)
		}
	}

	if UserMessage(msgEntry("response streamed")) {
		t.Error("no user marker should mean no match")
	}
}

func TestModelName(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"request routed to claude-3-5-sonnet-20241022", "sonnet"},
		{"claude-3-opus selected", "opus"},
		{"fallback to claude-3-haiku", "haiku"},
		{"using Opus for this turn", "opus"},
		{"no model mentioned here", ""},
	}
	for _, c := range cases {
		if got := ModelName(msgEntry(c.message)); got != c.want {
			t.Errorf("ModelName(%q) = %q, want %q", c.message, got, c.want)
		}
	}
}

func TestModelName_SearchesRawPayload(t *testing.T) {
	entry := core.LogEntry{
		Message: "request dispatched",
		Raw:     `{"message":"request dispatched","model":"claude-3-5-sonnet"}`,
	}
	if got := ModelName(entry); got != "sonnet" {
		t.Errorf("ModelName = %q, want sonnet", got)
	}
}
