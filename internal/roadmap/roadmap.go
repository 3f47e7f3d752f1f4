// Package roadmap manages the project's roadmap.md: timestamped idea entries
// appended under bracketed category headers.
package roadmap

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var validCategories = []string{"now", "next", "soon", "later", "ideas"}

const initialContent = `# NapkinWire Roadmap

Ideas and plans for the NapkinWire project, organized by priority and timeline.

## Now
*Current active work*

## Next
*Coming up in the next sprint/iteration*

## Soon
*Planned for the near future*

## Later
*Future possibilities*

## Ideas
*Brain dumps and possibilities to explore*

---

`

// Manager appends to and reads one roadmap file.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) Path() string { return m.path }

// ListResult carries the (optionally filtered) roadmap content.
type ListResult struct {
	Content        string `json:"content"`
	IdeaCount      int    `json:"idea_count"`
	CategoryFilter string `json:"category_filter,omitempty"`
	FilePath       string `json:"file_path"`
}

// AppendIdea appends a "## [Category] Title" entry, creating the initial
// roadmap skeleton on first use.
func (m *Manager) AppendIdea(title, description, category string) error {
	if category == "" {
		category = "ideas"
	}
	if !validCategory(category) {
		return fmt.Errorf("invalid category %q, must be one of: %v", category, validCategories)
	}

	if _, err := os.Stat(m.path); os.IsNotExist(err) {
		if err := m.createInitial(); err != nil {
			return err
		}
	}

	timestamp := time.Now().UTC().Format("2006-01-02 15:04 UTC")
	entry := fmt.Sprintf("\n## [%s] %s\n*Added: %s*\n%s\n---\n",
		titleCase(category), title, timestamp, description)

	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening roadmap for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("appending roadmap idea: %w", err)
	}
	log.Printf("roadmap level=info event=idea_appended title=%q category=%s", title, category)
	return nil
}

// ListIdeas returns roadmap content, narrowed to one category when given.
func (m *Manager) ListIdeas(category string) (ListResult, error) {
	if category != "" && !validCategory(category) {
		return ListResult{}, fmt.Errorf("invalid category %q, must be one of: %v", category, validCategories)
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ListResult{
				Content:  "Roadmap file is empty or doesn't exist yet.",
				FilePath: m.path,
			}, nil
		}
		return ListResult{}, fmt.Errorf("reading roadmap: %w", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return ListResult{
			Content:  "Roadmap file is empty or doesn't exist yet.",
			FilePath: m.path,
		}, nil
	}

	if category != "" {
		content = filterCategory(content, category)
	}

	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "## [") {
			count++
		}
	}

	return ListResult{
		Content:        content,
		IdeaCount:      count,
		CategoryFilter: category,
		FilePath:       m.path,
	}, nil
}

func (m *Manager) createInitial() error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating roadmap dir: %w", err)
		}
	}
	if err := os.WriteFile(m.path, []byte(initialContent), 0o644); err != nil {
		return fmt.Errorf("creating initial roadmap: %w", err)
	}
	log.Printf("roadmap level=info event=initial_created path=%s", m.path)
	return nil
}

// filterCategory keeps entry blocks of the target category plus all
// non-entry lines (file header, section scaffolding). Entry blocks run from
// their "## [Category]" header to the next "---" separator.
func filterCategory(content, category string) string {
	target := "## [" + titleCase(category) + "]"
	var kept []string

	const (
		outside = iota
		inTarget
		inOther
	)
	state := outside

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, target):
			state = inTarget
			kept = append(kept, line)
		case strings.HasPrefix(trimmed, "## ["):
			state = inOther
		case state == inTarget:
			kept = append(kept, line)
			if trimmed == "---" {
				state = outside
			}
		case state == inOther:
			if trimmed == "---" {
				state = outside
			}
		default:
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func validCategory(category string) bool {
	for _, c := range validCategories {
		if c == category {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
