package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default BaseURL is the Unreal Engine documentation root", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://dev.epicgames.com/documentation/en-us/unreal-engine" {
			t.Errorf("unexpected BaseURL: %s", cfg.BaseURL)
		}
	})

	t.Run("default AllowedPrefix covers the documentation tree", func(t *testing.T) {
		t.Parallel()
		if cfg.AllowedPrefix != "https://dev.epicgames.com/documentation" {
			t.Errorf("unexpected AllowedPrefix: %s", cfg.AllowedPrefix)
		}
	})

	t.Run("default Depth is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Depth != 1 {
			t.Errorf("expected Depth to be 1, got %d", cfg.Depth)
		}
	})

	t.Run("default MaxPages is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 0 {
			t.Errorf("expected MaxPages to be 0, got %d", cfg.MaxPages)
		}
	})

	t.Run("default Delay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.Delay != 1*time.Second {
			t.Errorf("expected Delay to be 1s, got %v", cfg.Delay)
		}
	})

	t.Run("default Retries is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.Retries != 3 {
			t.Errorf("expected Retries to be 3, got %d", cfg.Retries)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Workers is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 1 {
			t.Errorf("expected Workers to be 1, got %d", cfg.Workers)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default TitleTrimSuffix matches the default site", func(t *testing.T) {
		t.Parallel()
		if cfg.TitleTrimSuffix != " | Unreal Engine Documentation" {
			t.Errorf("unexpected TitleTrimSuffix: %q", cfg.TitleTrimSuffix)
		}
	})

	t.Run("default OutputDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != XDGDataDir() {
			t.Errorf("expected OutputDir %s, got %s", XDGDataDir(), cfg.OutputDir)
		}
	})

	t.Run("default CacheDir is the XDG cache dir", func(t *testing.T) {
		t.Parallel()
		if cfg.CacheDir != XDGCacheDir() {
			t.Errorf("expected CacheDir %s, got %s", XDGCacheDir(), cfg.CacheDir)
		}
	})

	t.Run("default UserAgent is empty meaning the fetcher default", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != "" {
			t.Errorf("expected empty UserAgent, got %q", cfg.UserAgent)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"behavior-tree"}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("multiple targets is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = []string{"bt", "gas", "https://dev.epicgames.com/documentation/en-us/unreal-engine"}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty targets returns ErrNoTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = []string{}

		if err := cfg.Validate(); !errors.Is(err, ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("nil targets returns ErrNoTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative depth returns ErrInvalidDepth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Depth = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("expected ErrInvalidDepth, got %v", err)
		}
	})

	t.Run("zero depth is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Depth = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("zero retries returns ErrInvalidRetries", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Retries = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidRetries) {
			t.Errorf("expected ErrInvalidRetries, got %v", err)
		}
	})

	t.Run("zero workers returns ErrInvalidWorkers", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Workers = 0

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidWorkers) {
			t.Errorf("expected ErrInvalidWorkers, got %v", err)
		}
	})

	t.Run("negative delay returns ErrInvalidDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = -1 * time.Second

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("zero delay is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Delay = 0

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative max pages returns ErrInvalidMaxPages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})
}

// TestFileProfileFor tests per-site profile merging.
func TestFileProfileFor(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteProfile{
				Depth:           2,
				TitleTrimSuffix: " | Docs",
			},
			Sites: map[string]SiteProfile{},
		}

		p := file.ProfileFor("unknown.example.com")
		if p.Depth != 2 {
			t.Errorf("expected depth 2, got %d", p.Depth)
		}
		if p.TitleTrimSuffix != " | Docs" {
			t.Errorf("expected default suffix, got %q", p.TitleTrimSuffix)
		}
	})

	t.Run("site profile overrides defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteProfile{
				Depth: 2,
				Delay: DurationFrom(1 * time.Second),
			},
			Sites: map[string]SiteProfile{
				"docs.example.com": {
					Depth: 3,
					Delay: DurationFrom(500 * time.Millisecond),
				},
			},
		}

		p := file.ProfileFor("docs.example.com")
		if p.Depth != 3 {
			t.Errorf("expected depth 3, got %d", p.Depth)
		}
		if p.Delay.Duration != 500*time.Millisecond {
			t.Errorf("expected 500ms delay, got %v", p.Delay.Duration)
		}
	})

	t.Run("zero fields keep defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteProfile{
				Depth:         2,
				CodeLanguages: []string{"hlsl"},
			},
			Sites: map[string]SiteProfile{
				"docs.example.com": {
					TitleTrimSuffix: " - Example Docs", // no depth or languages
				},
			},
		}

		p := file.ProfileFor("docs.example.com")
		if p.Depth != 2 {
			t.Errorf("expected default depth 2, got %d", p.Depth)
		}
		if len(p.CodeLanguages) != 1 || p.CodeLanguages[0] != "hlsl" {
			t.Errorf("expected default code languages, got %v", p.CodeLanguages)
		}
		if p.TitleTrimSuffix != " - Example Docs" {
			t.Errorf("expected site suffix, got %q", p.TitleTrimSuffix)
		}
	})

	t.Run("site selectors replace defaults", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteProfile{
				ContentSelectors: []string{"main"},
			},
			Sites: map[string]SiteProfile{
				"docs.example.com": {
					ContentSelectors: []string{"#docs-root", ".article-body"},
				},
			},
		}

		p := file.ProfileFor("docs.example.com")
		if len(p.ContentSelectors) != 2 || p.ContentSelectors[0] != "#docs-root" {
			t.Errorf("expected site selectors, got %v", p.ContentSelectors)
		}
	})

	t.Run("nil sites map", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteProfile{Depth: 4},
		}

		p := file.ProfileFor("any.example.com")
		if p.Depth != 4 {
			t.Errorf("expected depth 4, got %d", p.Depth)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile("/nonexistent/path/.docgrab")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		content := `defaults:
  depth: 2
  titleTrimSuffix: " | Docs"
sites:
  docs.example.com:
    baseURL: "https://docs.example.com/guide"
    allowedPrefix: "https://docs.example.com/"
    depth: 3
    delay: 1500ms
    contentSelectors:
      - "#docs-root"
    codeLanguages:
      - hlsl
      - glsl
topics:
  shaders: writing-shaders-guide
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Defaults.Depth != 2 {
			t.Errorf("expected default depth 2, got %d", cf.Defaults.Depth)
		}
		if cf.Defaults.TitleTrimSuffix != " | Docs" {
			t.Errorf("expected default suffix, got %q", cf.Defaults.TitleTrimSuffix)
		}

		site, ok := cf.Sites["docs.example.com"]
		if !ok {
			t.Fatal("expected docs.example.com in sites")
		}
		if site.BaseURL != "https://docs.example.com/guide" {
			t.Errorf("unexpected site baseURL: %q", site.BaseURL)
		}
		if site.Depth != 3 {
			t.Errorf("expected site depth 3, got %d", site.Depth)
		}
		if site.Delay.Duration != 1500*time.Millisecond {
			t.Errorf("expected 1500ms delay, got %v", site.Delay.Duration)
		}
		if len(site.CodeLanguages) != 2 {
			t.Errorf("expected 2 code languages, got %v", site.CodeLanguages)
		}
		if cf.Topics["shaders"] != "writing-shaders-guide" {
			t.Errorf("expected shaders topic, got %v", cf.Topics)
		}
	})

	t.Run("numeric delay reads as seconds", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		content := `defaults:
  delay: 2
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.Delay.Duration != 2*time.Second {
			t.Errorf("expected 2s delay, got %v", cf.Defaults.Delay.Duration)
		}
	})

	t.Run("normalizes topic shortcut case", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		content := `topics:
  Shaders: writing-shaders-guide
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Topics["shaders"] != "writing-shaders-guide" {
			t.Errorf("expected lowercased topic key, got %v", cf.Topics)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content: [}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid duration", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		content := `defaults:
  delay: soon
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid duration")
		}
	})

	t.Run("initializes nil maps", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".docgrab")
		content := `defaults:
  depth: 2
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
		if cf.Topics == nil {
			t.Error("expected Topics map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("returns empty when no config found", func(_ *testing.T) {
		// This may or may not find a config depending on the system.
		// Just ensure it doesn't panic.
		_ = FindConfigFile("")
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir returns non-empty path", func(t *testing.T) {
		t.Parallel()
		if XDGDataDir() == "" {
			t.Error("expected non-empty XDG data dir")
		}
	})

	t.Run("XDGCacheDir returns non-empty path", func(t *testing.T) {
		t.Parallel()
		if XDGCacheDir() == "" {
			t.Error("expected non-empty XDG cache dir")
		}
	})
}

// TestResolveTopic tests topic shortcut resolution.
func TestResolveTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		topic string
		extra map[string]string
		want  string
	}{
		{name: "builtin shortcut", topic: "bt", want: "behavior-tree-in-unreal-engine"},
		{name: "builtin long form", topic: "behavior-tree", want: "behavior-tree-in-unreal-engine"},
		{name: "case insensitive", topic: "GAS", want: "gameplay-ability-system-for-unreal-engine"},
		{name: "cpp alias", topic: "c++", want: "programming-with-cplusplus-in-unreal-engine"},
		{name: "unknown passes through", topic: "lumen-global-illumination", want: "lumen-global-illumination"},
		{
			name:  "extra shortcut wins",
			topic: "bt",
			extra: map[string]string{"bt": "custom-behavior-doc"},
			want:  "custom-behavior-doc",
		},
		{
			name:  "extra shortcut adds new entry",
			topic: "shaders",
			extra: map[string]string{"shaders": "writing-shaders-guide"},
			want:  "writing-shaders-guide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveTopic(tt.topic, tt.extra); got != tt.want {
				t.Errorf("ResolveTopic(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}

// TestShortcuts tests the merged shortcut listing.
func TestShortcuts(t *testing.T) {
	t.Parallel()

	t.Run("includes builtin entries", func(t *testing.T) {
		t.Parallel()

		merged := Shortcuts(nil)
		if merged["niagara"] != "niagara-visual-effects" {
			t.Errorf("expected niagara entry, got %q", merged["niagara"])
		}
		if len(merged) < 30 {
			t.Errorf("expected at least 30 builtin shortcuts, got %d", len(merged))
		}
	})

	t.Run("extra entries win on collision", func(t *testing.T) {
		t.Parallel()

		merged := Shortcuts(map[string]string{"niagara": "custom-niagara-doc"})
		if merged["niagara"] != "custom-niagara-doc" {
			t.Errorf("expected extra entry to win, got %q", merged["niagara"])
		}
	})

	t.Run("returns a fresh map", func(t *testing.T) {
		t.Parallel()

		merged := Shortcuts(nil)
		merged["niagara"] = "mutated"

		if Shortcuts(nil)["niagara"] != "niagara-visual-effects" {
			t.Error("expected the builtin table to be unaffected by mutation")
		}
	})
}

// TestDuration tests YAML round-trips of the Duration wrapper.
func TestDuration(t *testing.T) {
	t.Parallel()

	t.Run("marshals as a string", func(t *testing.T) {
		t.Parallel()

		out, err := yaml.Marshal(DurationFrom(1500 * time.Millisecond))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != "1.5s\n" {
			t.Errorf("expected %q, got %q", "1.5s\n", string(out))
		}
	})

	t.Run("unmarshals duration strings", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("750ms"), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Duration != 750*time.Millisecond {
			t.Errorf("expected 750ms, got %v", d.Duration)
		}
	})

	t.Run("unmarshals bare numbers as seconds", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("3"), &d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Duration != 3*time.Second {
			t.Errorf("expected 3s, got %v", d.Duration)
		}
	})

	t.Run("rejects non-duration strings", func(t *testing.T) {
		t.Parallel()

		var d Duration
		if err := yaml.Unmarshal([]byte("soon"), &d); err == nil {
			t.Error("expected error for invalid duration")
		}
	})
}
