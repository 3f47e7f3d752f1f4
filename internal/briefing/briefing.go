// Package briefing rebuilds essential project context for a fresh assistant
// session, layering detail until a token budget is exhausted.
package briefing

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/janekbaraniewski/napkinwire/internal/tickets"
)

const defaultMission = "NapkinWire: Visual diagram and UI mockup tools for assistant sessions"

// Result is a built context summary plus its estimated cost.
type Result struct {
	Context         string `json:"context"`
	EstimatedTokens int    `json:"estimated_tokens"`
	MaxTokens       int    `json:"max_tokens"`
	DetailLevel     string `json:"detail_level"`
}

// Builder assembles context from the project's file-backed stores. The
// roadmap path is configurable and may live outside the project root.
type Builder struct {
	store       *tickets.Store
	projectRoot string
	roadmapPath string
}

func NewBuilder(store *tickets.Store, projectRoot, roadmapPath string) *Builder {
	return &Builder{store: store, projectRoot: projectRoot, roadmapPath: roadmapPath}
}

// EstimateTokens is the rough budget heuristic: one token per four characters.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Build assembles the layered summary. Layers are added in fixed order while
// the remaining budget allows: critical (mission + active tickets), helpful
// (completed work), detailed (stats + roadmap), full (guidelines).
func (b *Builder) Build(maxTokens int) Result {
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	log.Printf("briefing level=info event=build_start max_tokens=%d", maxTokens)

	var sb strings.Builder
	tokens := 0

	active := b.activeTickets(3)
	activeList := make([]string, 0, len(active))
	for _, t := range active {
		activeList = append(activeList, fmt.Sprintf("%s: %s", t.ID, t.Title))
	}
	activeLine := "No active tickets"
	if len(activeList) > 0 {
		activeLine = strings.Join(activeList[:min(2, len(activeList))], ", ")
	}

	critical := fmt.Sprintf(`=== NAPKINWIRE CONTEXT ===
MISSION: %s
CURRENT: %d active high-priority tickets
ACTIVE: %s`, b.missionSummary(), len(active), activeLine)
	sb.WriteString(critical)
	tokens += EstimateTokens(critical)

	if tokens < maxTokens-300 {
		completed := b.recentCompleted(3)
		completedList := make([]string, 0, len(completed))
		for _, t := range completed {
			completedList = append(completedList, fmt.Sprintf("%s: %s", t.ID, t.Title))
		}
		helpful := fmt.Sprintf("\n\nCOMPLETED: %s", strings.Join(completedList, "; "))
		sb.WriteString(helpful)
		tokens += EstimateTokens(helpful)
	}

	if tokens < maxTokens-500 {
		stats := b.store.Stats()
		roadmapItems := b.roadmapItems(3)
		roadmapLine := "No roadmap items"
		if len(roadmapItems) > 0 {
			roadmapLine = strings.Join(roadmapItems, "; ")
		}
		detailed := fmt.Sprintf("\n\nSTATS: %d done, %d todo, %d in progress\nROADMAP: %s",
			stats["done"], stats["todo"], stats["in_progress"], roadmapLine)
		sb.WriteString(detailed)
		tokens += EstimateTokens(detailed)
	}

	if tokens < maxTokens-800 {
		full := fmt.Sprintf("\n\nGUIDELINES: %s\nPROJECT: NapkinWire assistant tools - diagram capture and usage analysis",
			b.guidelineInfo())
		sb.WriteString(full)
		tokens += EstimateTokens(full)
	}

	summary := sb.String()
	return Result{
		Context:         summary,
		EstimatedTokens: EstimateTokens(summary),
		MaxTokens:       maxTokens,
		DetailLevel:     "layered_based_on_budget",
	}
}

func (b *Builder) activeTickets(limit int) []tickets.Summary {
	all, err := b.store.List("todo")
	if err != nil {
		return nil
	}
	var high []tickets.Summary
	for _, t := range all {
		if t.Priority == "high" {
			high = append(high, t)
		}
	}
	sort.SliceStable(high, func(i, j int) bool { return high[i].ID > high[j].ID })
	if len(high) > limit {
		high = high[:limit]
	}
	return high
}

func (b *Builder) recentCompleted(limit int) []tickets.Summary {
	done, err := b.store.List("done")
	if err != nil {
		return nil
	}
	// List sorts by priority/created; for completed work recency matters more.
	sort.SliceStable(done, func(i, j int) bool { return done[i].CreatedAt > done[j].CreatedAt })
	if len(done) > limit {
		done = done[:limit]
	}
	return done
}

// roadmapItems pulls bullet items from the Next and Soon sections.
func (b *Builder) roadmapItems(limit int) []string {
	data, err := os.ReadFile(b.roadmapPath)
	if err != nil {
		return nil
	}

	var items []string
	inNextOrSoon := false
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "## Next") || strings.HasPrefix(line, "## Soon"):
			inNextOrSoon = true
		case strings.HasPrefix(line, "## ") && inNextOrSoon:
			inNextOrSoon = false
		case inNextOrSoon && strings.HasPrefix(strings.TrimSpace(line), "-"):
			item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
			if item != "" {
				items = append(items, item)
			}
		}
		if len(items) >= limit {
			break
		}
	}
	return items
}

func (b *Builder) missionSummary() string {
	data, err := os.ReadFile(filepath.Join(b.projectRoot, "mission.md"))
	if err != nil {
		return defaultMission
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return defaultMission
}

func (b *Builder) guidelineInfo() string {
	data, err := os.ReadFile(filepath.Join(b.projectRoot, "CLAUDE.md"))
	if err != nil {
		return "No CLAUDE.md found"
	}

	var keyInfo []string
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if i >= 10 || len(keyInfo) >= 3 {
			break
		}
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			keyInfo = append(keyInfo, line)
		}
	}
	if len(keyInfo) == 0 {
		return "CLAUDE.md exists but no key info extracted"
	}
	return strings.Join(keyInfo, "; ")
}
