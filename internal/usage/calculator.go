// Package usage reconstructs the session usage window from classified log
// entries and projects it into human-facing reports.
package usage

import (
	"fmt"
	"sort"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/classify"
	"github.com/janekbaraniewski/napkinwire/internal/core"
)

// recentActivityHorizon bounds how far back a user message may be and still
// count as evidence of a currently-open window.
const recentActivityHorizon = time.Hour

// Compute reconstructs the usage window from the full entry set and a
// reference instant. It is a pure function of (entries, now): no I/O, no
// global state, byte-identical results on repeated invocation.
func Compute(entries []core.LogEntry, now time.Time) core.UsageWindow {
	timestamped := make([]core.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp != nil {
			timestamped = append(timestamped, e)
		}
	}

	if len(timestamped) == 0 {
		return core.UnknownWindow(fmt.Sprintf(
			"no timestamped entries (%d entries total)", len(entries)))
	}

	sort.SliceStable(timestamped, func(i, j int) bool {
		return timestamped[i].Timestamp.Before(*timestamped[j].Timestamp)
	})

	var lastRateLimit *time.Time
	for _, e := range timestamped {
		if classify.RateLimited(e) {
			lastRateLimit = e.Timestamp
		}
	}

	var recent []time.Time
	activityCutoff := now.Add(-recentActivityHorizon)
	for _, e := range timestamped {
		if classify.UserMessage(e) && e.Timestamp.After(activityCutoff) {
			recent = append(recent, *e.Timestamp)
		}
	}

	if len(recent) > 0 {
		earliest := recent[0]

		if lastRateLimit != nil && now.Sub(*lastRateLimit) <= core.WindowDuration {
			cooldownEnd := lastRateLimit.Add(core.CooldownDuration)
			if cooldownEnd.After(earliest) {
				// Activity observed while the cooldown is still running;
				// no new window may have started yet.
				return core.CooldownWindow(fmt.Sprintf(
					"activity during cooldown: rate limit at %s, cooldown ends %s",
					lastRateLimit.Format(time.RFC3339), cooldownEnd.Format(time.RFC3339)))
			}
			return finalizeActive(earliest, now, timestamped, fmt.Sprintf(
				"window restarted after cooldown ended %s, first activity %s",
				cooldownEnd.Format(time.RFC3339), earliest.Format(time.RFC3339)))
		}

		return finalizeActive(earliest, now, timestamped, fmt.Sprintf(
			"recent activity, no qualifying rate limit: first activity %s of %d entries",
			earliest.Format(time.RFC3339), len(timestamped)))
	}

	if lastRateLimit != nil {
		cooldownEnd := lastRateLimit.Add(core.CooldownDuration)
		if cooldownEnd.After(now) {
			return core.CooldownWindow(fmt.Sprintf(
				"no recent activity, cooldown from rate limit at %s ends %s",
				lastRateLimit.Format(time.RFC3339), cooldownEnd.Format(time.RFC3339)))
		}
		// Cooldown has passed with nothing since: the window is open but unused.
		return finalizeActive(now, now, timestamped, fmt.Sprintf(
			"cooldown ended %s with no activity since; fresh window",
			cooldownEnd.Format(time.RFC3339)))
	}

	// No rate limit anywhere: fall back to the earliest user message. The
	// entry set is already bounded by the file-selection horizon, so no extra
	// cutoff is applied here.
	var earliestUser *time.Time
	for _, e := range timestamped {
		if classify.UserMessage(e) {
			earliestUser = e.Timestamp
			break
		}
	}

	if earliestUser == nil {
		return finalizeActive(now, now, timestamped, fmt.Sprintf(
			"no rate limit and no user activity; assuming window starts now (%d entries)",
			len(timestamped)))
	}

	age := now.Sub(*earliestUser)
	if age > core.WindowDuration {
		return core.ExpiredWindow(*earliestUser, now,
			countMessagesSince(timestamped, *earliestUser), fmt.Sprintf(
				"earliest user message %s is %s old, past window duration",
				earliestUser.Format(time.RFC3339), age.Round(time.Second)))
	}
	return finalizeActive(*earliestUser, now, timestamped, fmt.Sprintf(
		"no rate limit; window anchored at earliest user message %s",
		earliestUser.Format(time.RFC3339)))
}

// finalizeActive applies the defensive elapsed check: an active window that
// has silently outlived its duration is reported as expired, never as active
// with out-of-range elapsed.
func finalizeActive(start, now time.Time, timestamped []core.LogEntry, debug string) core.UsageWindow {
	messages := countMessagesSince(timestamped, start)
	if now.Sub(start) > core.WindowDuration {
		return core.ExpiredWindow(start, now, messages, debug+" (elapsed exceeded window duration)")
	}
	return core.ActiveWindow(start, now, messages, debug)
}

func countMessagesSince(entries []core.LogEntry, start time.Time) int {
	count := 0
	for _, e := range entries {
		if e.Timestamp == nil || !classify.UserMessage(e) {
			continue
		}
		if !e.Timestamp.Before(start) {
			count++
		}
	}
	return count
}
