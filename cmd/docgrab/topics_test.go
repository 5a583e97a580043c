package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewTopicsCmd tests the topics command creation.
func TestNewTopicsCmd(t *testing.T) {
	t.Parallel()

	cmd := NewTopicsCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "topics" {
			t.Errorf("expected use 'topics', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has config flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("config")
		if flag == nil {
			t.Fatal("expected config flag")
		}
		if flag.Shorthand != "c" {
			t.Errorf("expected shorthand 'c', got %q", flag.Shorthand)
		}
	})
}

// TestRunTopicsCmd tests the topics command output.
func TestRunTopicsCmd(t *testing.T) {
	t.Run("lists built-in shortcuts", func(t *testing.T) {
		// An explicit config path that does not exist keeps the
		// cwd/home config search out of this test.
		missing := filepath.Join(t.TempDir(), "no-such-config")

		var buf bytes.Buffer
		cmd := NewTopicsCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", missing})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Available topic shortcuts:") {
			t.Errorf("expected header, got %q", output)
		}
		if !strings.Contains(output, "bt") {
			t.Error("expected built-in shortcut 'bt'")
		}
		if !strings.Contains(output, "Behavior Tree In Unreal Engine") {
			t.Errorf("expected title-cased display name, got %q", output)
		}
	})

	t.Run("lists shortcuts in alphabetical order", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "no-such-config")

		var buf bytes.Buffer
		cmd := NewTopicsCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", missing})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		aiIdx := strings.Index(output, "\n  ai ")
		btIdx := strings.Index(output, "\n  bt ")
		vfxIdx := strings.Index(output, "\n  vfx ")
		if aiIdx < 0 || btIdx < 0 || vfxIdx < 0 {
			t.Fatalf("expected ai, bt, and vfx entries, got %q", output)
		}
		if !(aiIdx < btIdx && btIdx < vfxIdx) {
			t.Error("expected shortcuts sorted alphabetically")
		}
	})

	t.Run("includes config file topics", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".docgrab")
		content := []byte(`
topics:
  statetree: state-tree-in-unreal-engine
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		var buf bytes.Buffer
		cmd := NewTopicsCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", configPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "statetree") {
			t.Errorf("expected config shortcut 'statetree', got %q", output)
		}
		if !strings.Contains(output, "State Tree In Unreal Engine") {
			t.Errorf("expected display name for config topic, got %q", output)
		}
	})

	t.Run("ignores broken config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".docgrab")
		if err := os.WriteFile(configPath, []byte("{not yaml"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		var buf bytes.Buffer
		cmd := NewTopicsCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-c", configPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Built-in shortcuts still listed
		if !strings.Contains(buf.String(), "bt") {
			t.Error("expected built-in shortcuts despite broken config")
		}
	})
}
