package usage

import (
	"testing"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/core"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func entryAt(ts time.Time, message string) core.LogEntry {
	t := ts
	return core.LogEntry{Timestamp: &t, Message: message, Raw: message}
}

func TestCompute_NoEntries(t *testing.T) {
	w := Compute(nil, testNow)

	if w.Status != core.StatusUnknown {
		t.Errorf("status = %s, want unknown", w.Status)
	}
	if w.WindowStarted != nil {
		t.Error("window_started should be nil")
	}
	if w.TimeElapsed != 0 {
		t.Errorf("elapsed = %d, want 0", w.TimeElapsed)
	}
	if w.EstimatedRemains != 18000 {
		t.Errorf("remaining = %d, want 18000", w.EstimatedRemains)
	}
	if w.MessagesInWindow != 0 {
		t.Errorf("messages = %d, want 0", w.MessagesInWindow)
	}
}

func TestCompute_NoTimestampedEntries(t *testing.T) {
	entries := []core.LogEntry{
		{Message: "user message sent", Raw: "user message sent"},
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusUnknown {
		t.Errorf("status = %s, want unknown", w.Status)
	}
	if w.EstimatedRemains != 18000 {
		t.Errorf("remaining = %d, want 18000", w.EstimatedRemains)
	}
}

func TestCompute_WindowRestartedAfterCooldown(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-6*time.Hour), "Rate limit exceeded for request"),
		entryAt(testNow.Add(-30*time.Minute), "User message sent"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	if w.WindowStarted == nil {
		t.Fatal("window_started should be set for active windows")
	}
	want := testNow.Add(-30 * time.Minute)
	if !w.WindowStarted.Equal(want) {
		t.Errorf("window_started = %s, want %s", w.WindowStarted, want)
	}
	if w.TimeElapsed != 1800 {
		t.Errorf("elapsed = %d, want 1800", w.TimeElapsed)
	}
	if w.EstimatedRemains != 16200 {
		t.Errorf("remaining = %d, want 16200", w.EstimatedRemains)
	}
	if w.MessagesInWindow != 1 {
		t.Errorf("messages = %d, want 1", w.MessagesInWindow)
	}
}

func TestCompute_StillInCooldown(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-2*time.Hour), "429 too many requests"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusInCooldown {
		t.Fatalf("status = %s, want in_cooldown", w.Status)
	}
	if w.WindowStarted != nil {
		t.Error("window_started should be nil during cooldown")
	}
	if w.EstimatedRemains != 0 {
		t.Errorf("remaining = %d, want 0", w.EstimatedRemains)
	}
}

func TestCompute_ActivityDuringCooldown(t *testing.T) {
	// Rate limit 2h ago, user message 30m ago. Cooldown runs until now+3h,
	// so the apparent activity cannot have opened a new window.
	entries := []core.LogEntry{
		entryAt(testNow.Add(-2*time.Hour), "rate limit hit"),
		entryAt(testNow.Add(-30*time.Minute), "user message sent"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusInCooldown {
		t.Errorf("status = %s, want in_cooldown", w.Status)
	}
}

func TestCompute_ExpiredSession(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-7*time.Hour), "User message sent"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusExpired {
		t.Fatalf("status = %s, want expired", w.Status)
	}
	if w.TimeElapsed != 25200 {
		t.Errorf("elapsed = %d, want 25200", w.TimeElapsed)
	}
	if w.EstimatedRemains != 0 {
		t.Errorf("remaining = %d, want 0", w.EstimatedRemains)
	}
	if w.WindowStarted == nil || !w.WindowStarted.Equal(testNow.Add(-7*time.Hour)) {
		t.Errorf("window_started = %v, want %s", w.WindowStarted, testNow.Add(-7*time.Hour))
	}
}

func TestCompute_NoRateLimitRecentActivity(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-45*time.Minute), "user input received"),
		entryAt(testNow.Add(-10*time.Minute), "user input received"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	want := testNow.Add(-45 * time.Minute)
	if !w.WindowStarted.Equal(want) {
		t.Errorf("window_started = %s, want %s", w.WindowStarted, want)
	}
	if w.MessagesInWindow != 2 {
		t.Errorf("messages = %d, want 2", w.MessagesInWindow)
	}
}

func TestCompute_CooldownEndedNoActivitySince(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-6*time.Hour), "rate limit exceeded"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	if !w.WindowStarted.Equal(testNow) {
		t.Errorf("window_started = %s, want now", w.WindowStarted)
	}
	if w.TimeElapsed != 0 {
		t.Errorf("elapsed = %d, want 0", w.TimeElapsed)
	}
	if w.EstimatedRemains != 18000 {
		t.Errorf("remaining = %d, want 18000", w.EstimatedRemains)
	}
}

func TestCompute_NoUserActivityAtAll(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-3*time.Hour), "internal telemetry flush"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	if !w.WindowStarted.Equal(testNow) {
		t.Errorf("window_started = %s, want now", w.WindowStarted)
	}
	if w.MessagesInWindow != 0 {
		t.Errorf("messages = %d, want 0", w.MessagesInWindow)
	}
}

func TestCompute_SystemLinesQuotingUserDoNotCount(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-20*time.Minute), "debug: replaying user message for context"),
	}
	w := Compute(entries, testNow)

	if w.Status == core.StatusActive && w.MessagesInWindow != 0 {
		t.Errorf("messages = %d, want 0 for vetoed entries", w.MessagesInWindow)
	}
}

func TestCompute_ActiveInvariants(t *testing.T) {
	cases := [][]core.LogEntry{
		{entryAt(testNow.Add(-30*time.Minute), "user message sent")},
		{entryAt(testNow.Add(-59*time.Minute), "human turn started")},
		{
			entryAt(testNow.Add(-6*time.Hour), "rate limit exceeded"),
			entryAt(testNow.Add(-5*time.Minute), "user input"),
		},
	}

	windowSecs := int64(core.WindowDuration.Seconds())
	for i, entries := range cases {
		w := Compute(entries, testNow)
		if w.Status != core.StatusActive {
			t.Errorf("case %d: status = %s, want active", i, w.Status)
			continue
		}
		if w.TimeElapsed < 0 || w.TimeElapsed > windowSecs {
			t.Errorf("case %d: elapsed %d out of range", i, w.TimeElapsed)
		}
		if w.TimeElapsed+w.EstimatedRemains != windowSecs {
			t.Errorf("case %d: elapsed+remaining = %d, want %d",
				i, w.TimeElapsed+w.EstimatedRemains, windowSecs)
		}
		if w.WindowStarted == nil {
			t.Errorf("case %d: active window without start time", i)
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-6*time.Hour), "rate limit exceeded"),
		entryAt(testNow.Add(-30*time.Minute), "user message sent"),
		entryAt(testNow.Add(-10*time.Minute), "user message sent"),
	}

	first := Compute(entries, testNow)
	second := Compute(entries, testNow)

	if first.Status != second.Status ||
		first.TimeElapsed != second.TimeElapsed ||
		first.EstimatedRemains != second.EstimatedRemains ||
		first.MessagesInWindow != second.MessagesInWindow {
		t.Errorf("repeated computation differs: %+v vs %+v", first, second)
	}
}

func TestCompute_UnsortedInput(t *testing.T) {
	entries := []core.LogEntry{
		entryAt(testNow.Add(-10*time.Minute), "user message sent"),
		entryAt(testNow.Add(-45*time.Minute), "user message sent"),
	}
	w := Compute(entries, testNow)

	if w.Status != core.StatusActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	want := testNow.Add(-45 * time.Minute)
	if !w.WindowStarted.Equal(want) {
		t.Errorf("window_started = %s, want earliest %s", w.WindowStarted, want)
	}
}
