package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docgrab/docgrab/internal/model"
)

// TestWriteFile tests single-file output with directory creation.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "out", "combined.md")
		if err := WriteFile(path, []byte("# Combined\n")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(data) != "# Combined\n" {
			t.Errorf("expected file content %q, got %q", "# Combined\n", string(data))
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.md")
		if err := WriteFile(path, []byte("old")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := WriteFile(path, []byte("new")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(data) != "new" {
			t.Errorf("expected file content %q, got %q", "new", string(data))
		}
	})
}

// TestWritePageFiles tests per-page file output.
func TestWritePageFiles(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per page", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		paths, err := WritePageFiles(dir, createTestPages())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(paths) != 2 {
			t.Fatalf("expected 2 paths, got %d", len(paths))
		}
		if got := filepath.Base(paths[0]); got != "getting-started.md" {
			t.Errorf("expected first file getting-started.md, got %s", got)
		}
		if got := filepath.Base(paths[1]); got != "working-with-nodes.md" {
			t.Errorf("expected second file working-with-nodes.md, got %s", got)
		}

		data, err := os.ReadFile(paths[0])
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if !strings.Contains(string(data), "# Getting Started") {
			t.Error("expected page file to contain the title heading")
		}
		if !strings.HasPrefix(string(data), "---\n") {
			t.Error("expected page file to start with frontmatter")
		}
	})

	t.Run("suffixes colliding slugs in page order", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{URL: "https://docs.example.com/a", Title: "Overview"},
			{URL: "https://docs.example.com/b", Title: "Overview"},
			{URL: "https://docs.example.com/c", Title: "Overview"},
		}

		dir := t.TempDir()
		paths, err := WritePageFiles(dir, pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"overview.md", "overview-2.md", "overview-3.md"}
		if len(paths) != len(want) {
			t.Fatalf("expected %d paths, got %d", len(want), len(paths))
		}
		for i, w := range want {
			if got := filepath.Base(paths[i]); got != w {
				t.Errorf("expected path %d to be %s, got %s", i, w, got)
			}
		}
	})

	t.Run("untitled pages get the fallback name", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{URL: "https://docs.example.com/x", Title: ""},
		}

		dir := t.TempDir()
		paths, err := WritePageFiles(dir, pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(paths) != 1 || filepath.Base(paths[0]) != "untitled.md" {
			t.Errorf("expected untitled.md, got %v", paths)
		}
	})

	t.Run("creates the output directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "pages")
		if _, err := WritePageFiles(dir, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected output directory to exist: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected output path to be a directory")
		}
	})
}
