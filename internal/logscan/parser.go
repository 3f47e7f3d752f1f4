package logscan

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/core"
)

// isoTimestampRE matches an ISO-8601-like timestamp substring inside free-text
// log lines: date, "T" or space separator, time, optional fraction and zone.
var isoTimestampRE = regexp.MustCompile(
	`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`,
)

// structuredRecord covers the field spellings seen across log revisions.
type structuredRecord struct {
	Timestamp string `json:"timestamp"`
	Time      string `json:"time"`
	TS        string `json:"ts"`
	Level     string `json:"level"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	Text      string `json:"text"`
}

// ParseFile parses every line of the file at path. A malformed line produces
// no entry and never aborts the rest of the file; an unreadable file returns
// nil so the caller can continue with the remaining files.
func ParseFile(path string) []core.LogEntry {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("logscan level=warn event=parse_open_failed file=%s error=%v", path, err)
		return nil
	}
	defer f.Close()

	var entries []core.LogEntry
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 256*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line size

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if entry, ok := ParseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("logscan level=warn event=parse_scan_failed file=%s error=%v", path, err)
	}
	return entries
}

// ParseLine converts one raw line into a LogEntry. Priority order: structured
// JSON record, then ISO-8601 substring scan over the raw text. Lines matching
// neither are discarded.
func ParseLine(line string) (core.LogEntry, bool) {
	if entry, ok := parseStructured(line); ok {
		return entry, true
	}

	if match := isoTimestampRE.FindString(line); match != "" {
		entry := core.LogEntry{
			Message: strings.TrimSpace(line),
			Raw:     line,
		}
		if ts, ok := parseTimestamp(match); ok {
			entry.Timestamp = &ts
		}
		return entry, true
	}

	return core.LogEntry{}, false
}

func parseStructured(line string) (core.LogEntry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return core.LogEntry{}, false
	}

	var rec structuredRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return core.LogEntry{}, false
	}

	entry := core.LogEntry{
		Level:   firstNonEmpty(rec.Level, rec.Severity),
		Message: firstNonEmpty(rec.Message, rec.Msg, rec.Text),
		Raw:     line,
	}

	rawTS := firstNonEmpty(rec.Timestamp, rec.Time, rec.TS)
	if rawTS != "" {
		if ts, ok := parseTimestamp(rawTS); ok {
			entry.Timestamp = &ts
		}
	}

	// A record with neither message nor timestamp tells the classifiers
	// nothing; treat it like an unparsable line.
	if entry.Message == "" && entry.Timestamp == nil {
		return core.LogEntry{}, false
	}
	return entry, true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05Z07:00",
}

// Layouts without zone information. The log source emits UTC in practice, so
// naive timestamps are taken as UTC directly; host-local conversion is never
// applied (it would make window boundaries depend on the host timezone).
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp normalizes a timestamp string to UTC.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
