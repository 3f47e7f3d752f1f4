// Package projtree renders a project file tree with per-file descriptions
// extracted from source headers, honoring .napkinignore patterns.
package projtree

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const maxDepth = 10

var defaultIgnores = []string{
	"__pycache__", "*.pyc", ".git", ".vscode", ".idea",
	"node_modules", "vendor", "venv", ".venv", "env", ".env",
	".DS_Store", "Thumbs.db", "*.log", ".pytest_cache",
	"dist", "build", "*.egg-info", ".mypy_cache",
}

// Node is one entry in the tree.
type Node struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"` // "file" or "directory"
	Path        string  `json:"path"`
	Size        int64   `json:"size,omitempty"`
	Modified    string  `json:"modified,omitempty"`
	Description string  `json:"description,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// Options control a tree build.
type Options struct {
	IncludeStats bool
	// FilterExt keeps only files with this extension (without dot).
	FilterExt string
}

// Result is a built tree plus its rendered form.
type Result struct {
	ProjectRoot     string  `json:"project_root"`
	Tree            *Node   `json:"tree_structure"`
	FormattedOutput string  `json:"formatted_output"`
	TotalItems      int     `json:"total_items"`
	ProcessingSecs  float64 `json:"processing_time_seconds"`
}

// Build scans the project root and produces the tree.
func Build(root string, opts Options) (Result, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("project root does not exist: %s", root)
	}

	started := time.Now()
	ignores := loadIgnorePatterns(root)

	tree := &Node{
		Name: filepath.Base(root),
		Type: "directory",
		Path: root,
	}
	scanDirectory(root, root, tree, ignores, opts, 0)

	if opts.FilterExt != "" {
		tree.Children = filterNodes(tree.Children, "."+opts.FilterExt)
	}

	lines := renderNode(tree, "")
	return Result{
		ProjectRoot:     root,
		Tree:            tree,
		FormattedOutput: strings.Join(lines, "\n"),
		TotalItems:      len(lines),
		ProcessingSecs:  float64(time.Since(started).Milliseconds()) / 1000,
	}, nil
}

func scanDirectory(root, dir string, parent *Node, ignores []string, opts Options, depth int) {
	if depth > maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("projtree level=warn event=scan_failed dir=%s error=%v", dir, err)
		return
	}

	// Directories first, then files, each alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if shouldIgnore(path, entry.Name(), root, ignores) {
			continue
		}

		node := &Node{Name: entry.Name(), Path: path}
		if entry.IsDir() {
			node.Type = "directory"
			scanDirectory(root, path, node, ignores, opts, depth+1)
		} else {
			node.Type = "file"
			if opts.IncludeStats {
				if info, err := entry.Info(); err == nil {
					node.Size = info.Size()
					node.Modified = info.ModTime().UTC().Format(time.RFC3339)
				}
			}
			node.Description = fileDescription(path)
		}
		parent.Children = append(parent.Children, node)
	}
}

func loadIgnorePatterns(root string) []string {
	patterns := append([]string{}, defaultIgnores...)

	data, err := os.ReadFile(filepath.Join(root, ".napkinignore"))
	if err != nil {
		return patterns
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns
}

func shouldIgnore(path, name, root string, patterns []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = name
	}
	for _, pattern := range patterns {
		if name == pattern || strings.Contains(rel, pattern) {
			return true
		}
		if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(name, pattern[1:]) {
			return true
		}
	}
	return false
}

func filterNodes(nodes []*Node, suffix string) []*Node {
	var kept []*Node
	for _, n := range nodes {
		if n.Type == "directory" {
			n.Children = filterNodes(n.Children, suffix)
			if len(n.Children) > 0 {
				kept = append(kept, n)
			}
			continue
		}
		if strings.HasSuffix(n.Name, suffix) {
			kept = append(kept, n)
		}
	}
	return kept
}

func renderNode(node *Node, indent string) []string {
	var lines []string

	if node.Type == "directory" {
		lines = append(lines, fmt.Sprintf("%s📁 %s/", indent, node.Name))
	} else {
		icon := iconFor(node.Name)
		suffix := ""
		if node.Description != "" {
			suffix = " - " + node.Description
		}
		lines = append(lines, fmt.Sprintf("%s%s %s%s", indent, icon, node.Name, suffix))
	}

	for _, child := range node.Children {
		lines = append(lines, renderNode(child, indent+"  ")...)
	}
	return lines
}

func iconFor(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".go"):
		return "🐹"
	case strings.HasSuffix(lower, ".py"):
		return "🐍"
	case strings.HasSuffix(lower, ".js"), strings.HasSuffix(lower, ".ts"),
		strings.HasSuffix(lower, ".jsx"), strings.HasSuffix(lower, ".tsx"):
		return "⚡"
	case strings.HasSuffix(lower, ".json"):
		return "📋"
	case strings.HasPrefix(lower, "readme"):
		return "📖"
	default:
		return "📄"
	}
}

// fileDescription extracts a one-line description from recognizable file
// headers. Best effort; empty on anything unrecognized.
func fileDescription(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".go"):
		return headerComment(path, "//")
	case strings.HasSuffix(name, ".js"), strings.HasSuffix(name, ".ts"),
		strings.HasSuffix(name, ".jsx"), strings.HasSuffix(name, ".tsx"):
		return headerComment(path, "//")
	case strings.HasPrefix(name, "readme"):
		return readmeDescription(path)
	case name == "package.json":
		return packageJSONDescription(path)
	default:
		return ""
	}
}

func headerComment(path, marker string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for i, line := range strings.Split(string(data), "\n") {
		if i >= 20 {
			break
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, marker) {
			continue
		}
		desc := strings.TrimSpace(strings.TrimPrefix(line, marker))
		if desc == "" || strings.HasPrefix(desc, "@") || strings.HasPrefix(desc, "go:") || len(desc) <= 10 {
			continue
		}
		return truncate(desc, 100)
	}
	return ""
}

func readmeDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for i, line := range strings.Split(string(data), "\n") {
		if i >= 10 {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "![") || len(line) <= 20 {
			continue
		}
		return truncate(line, 100)
	}
	return ""
}

func packageJSONDescription(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var pkg struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Description
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
