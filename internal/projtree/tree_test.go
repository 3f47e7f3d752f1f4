package projtree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
}

func TestBuild_BasicTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "// Command main is the entry point for the tool.\npackage main\n")
	writeFile(t, root, "sub/helper.go", "package sub\n")

	result, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if !strings.Contains(result.FormattedOutput, "main.go") {
		t.Error("output missing main.go")
	}
	if !strings.Contains(result.FormattedOutput, "sub/") {
		t.Error("output missing sub directory")
	}
	if !strings.Contains(result.FormattedOutput, "Command main is the entry point") {
		t.Error("Go header comment should become the file description")
	}
	if result.TotalItems == 0 {
		t.Error("total items should be positive")
	}
}

func TestBuild_HonorsIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".napkinignore", "secret/\n*.tmp\n")
	writeFile(t, root, "secret/hidden.go", "package secret\n")
	writeFile(t, root, "scratch.tmp", "x")
	writeFile(t, root, "visible.go", "package visible\n")

	result, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if strings.Contains(result.FormattedOutput, "hidden.go") {
		t.Error("ignored directory content leaked into output")
	}
	if strings.Contains(result.FormattedOutput, "scratch.tmp") {
		t.Error("glob-ignored file leaked into output")
	}
	if !strings.Contains(result.FormattedOutput, "visible.go") {
		t.Error("visible.go missing")
	}
}

func TestBuild_DefaultIgnores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/pkg/index.js", "x")
	writeFile(t, root, "app.go", "package app\n")

	result, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if strings.Contains(result.FormattedOutput, "node_modules") {
		t.Error("node_modules should be ignored by default")
	}
}

func TestBuild_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.py", "print('x')\n")
	writeFile(t, root, "nested/c.go", "package c\n")

	result, err := Build(root, Options{FilterExt: "go"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if strings.Contains(result.FormattedOutput, "b.py") {
		t.Error("filtered-out extension present")
	}
	if !strings.Contains(result.FormattedOutput, "a.go") || !strings.Contains(result.FormattedOutput, "c.go") {
		t.Error("matching files missing")
	}
}

func TestBuild_IncludeStats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.json", `{"description":"test fixture package"}`)

	result, err := Build(root, Options{IncludeStats: true})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var file *Node
	for _, child := range result.Tree.Children {
		if child.Name == "data.json" {
			file = child
		}
	}
	if file == nil {
		t.Fatal("data.json node missing")
	}
	if file.Size == 0 {
		t.Error("size should be recorded with stats enabled")
	}
	if file.Modified == "" {
		t.Error("modified time should be recorded with stats enabled")
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Error("missing root should error")
	}
}

func TestReadmeDescription(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Title\n\nThis project renders annotated file trees for tooling.\n")

	result, err := Build(root, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !strings.Contains(result.FormattedOutput, "renders annotated file trees") {
		t.Error("README first paragraph should become its description")
	}
}

func TestCache_ServesFromCache(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")

	cache := NewCache(root)
	defer cache.Close()

	first, err := cache.Get(Options{})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	second, err := cache.Get(Options{})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if first.FormattedOutput != second.FormattedOutput {
		t.Error("cached result should match the first build")
	}
}

func TestCache_InvalidateForcesRebuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")

	cache := NewCache(root)
	defer cache.Close()

	if _, err := cache.Get(Options{}); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	writeFile(t, root, "b.go", "package b\n")
	cache.Invalidate()

	result, err := cache.Get(Options{})
	if err != nil {
		t.Fatalf("Get() after invalidate error: %v", err)
	}
	if !strings.Contains(result.FormattedOutput, "b.go") {
		t.Error("rebuild after invalidation should see the new file")
	}
}

func TestCache_OptionsKeyedSeparately(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")
	writeFile(t, root, "b.py", "print('x')\n")

	cache := NewCache(root)
	defer cache.Close()

	all, err := cache.Get(Options{})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	goOnly, err := cache.Get(Options{FilterExt: "go"})
	if err != nil {
		t.Fatalf("Get(filter) error: %v", err)
	}

	if !strings.Contains(all.FormattedOutput, "b.py") {
		t.Error("unfiltered result missing b.py")
	}
	if strings.Contains(goOnly.FormattedOutput, "b.py") {
		t.Error("filtered result should not contain b.py")
	}
}
