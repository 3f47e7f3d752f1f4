package usage

import (
	"log"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/classify"
	"github.com/janekbaraniewski/napkinwire/internal/core"
	"github.com/janekbaraniewski/napkinwire/internal/logscan"
)

// Options configure one analysis run. The zero value analyzes the default log
// locations over the default horizon at the current instant.
type Options struct {
	// LogDir overrides platform candidate directories when non-empty.
	LogDir string
	// Horizon is the file recency horizon; logscan.DefaultHorizon when zero.
	Horizon time.Duration
	// Now is the reference instant; time.Now().UTC() when zero. Fixing it
	// makes runs reproducible in tests.
	Now time.Time
}

// Analyze performs one full analysis pass: resolve the log source, select
// recent files, parse every line, tally model usage, and compute the window.
// Nothing is shared between invocations; each call re-reads from scratch.
// It always returns a well-formed report: a missing log source degrades to a
// default window tagged with SourceError.
func Analyze(opts Options) core.UsageReport {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = logscan.DefaultHorizon
	}

	source := logscan.Resolve(logscan.CandidateDirs(opts.LogDir))
	if !source.Found {
		return core.UsageReport{
			Window:      core.UnknownWindow("log source unavailable"),
			ModelUsage:  core.ModelUsage{},
			SourceError: "log directory not found",
		}
	}

	files := logscan.SelectRecent(source.Dir, horizon, now)

	var entries []core.LogEntry
	for _, path := range files {
		entries = append(entries, logscan.ParseFile(path)...)
	}

	tally := make(core.ModelUsage)
	for _, e := range entries {
		model := classify.ModelName(e)
		if model == "" {
			model = core.UnknownModel
		}
		tally[model]++
	}

	window := Compute(entries, now)

	log.Printf(
		"usage level=info event=analyze_done dir=%s files=%d entries=%d status=%s messages=%d",
		source.Dir, len(files), len(entries), window.Status, window.MessagesInWindow,
	)

	return core.UsageReport{
		Window:     window,
		ModelUsage: tally,
		Entries:    len(entries),
		Files:      len(files),
	}
}
