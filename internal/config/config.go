package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/docgrab/docgrab/internal/model"
)

// Default configuration values.
// These values are chosen for polite crawling of public documentation
// sites: conservative delays, bounded retries, and shallow depth.
const (
	// DefaultBaseURL is the page a topic slug is resolved against.
	// Topic fetches start at "<DefaultBaseURL>/<slug>".
	DefaultBaseURL = "https://dev.epicgames.com/documentation/en-us/unreal-engine"

	// DefaultAllowedPrefix confines crawls to the documentation tree.
	// Links that resolve outside this prefix are recorded but never
	// fetched.
	DefaultAllowedPrefix = "https://dev.epicgames.com/documentation"

	// DefaultDepth of 1 fetches the start page plus the pages it links
	// to. Documentation hubs link to dozens of pages, so each extra
	// level multiplies the crawl size considerably.
	DefaultDepth = 1

	// DefaultDelay is the minimum interval between requests to the same
	// host. 1 second is conservative and respectful of server resources.
	// Can be adjusted via the --delay CLI flag.
	DefaultDelay = 1 * time.Second

	// DefaultRetries is the number of network attempts per page before
	// it is recorded as skipped. Only transient failures consume
	// retries; a 404 fails immediately.
	DefaultRetries = 3

	// DefaultTimeout is the per-request HTTP timeout. Documentation
	// CDNs respond quickly; 30 seconds accommodates slow mirrors
	// without letting a dead host stall the crawl.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers of 1 keeps the crawl strictly sequential, which
	// gives deterministic breadth-first page order. Raising it relaxes
	// ordering but never the per-host delay.
	DefaultWorkers = 1

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = model.MaxBodySize

	// DefaultTitleTrimSuffix is removed from page titles. Documentation
	// sites append their site name to every <title>.
	DefaultTitleTrimSuffix = " | Unreal Engine Documentation"

	// DefaultCombinedFile is the combined document's filename inside
	// the output directory.
	DefaultCombinedFile = "docs_combined.md"

	// DefaultContextFile is the condensed context document's filename
	// inside the output directory.
	DefaultContextFile = "docs_context.md"

	// AppName is the application name used for XDG directory paths.
	AppName = "docgrab"
)

// Config holds all configuration options for docgrab.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// BaseURL is the page topic slugs are resolved against.
	BaseURL string

	// AllowedPrefix confines the crawl. An empty prefix falls back to
	// the start URL's scheme and host.
	AllowedPrefix string

	// Depth is the link-following depth. Depth 0 fetches only the
	// start page.
	Depth int

	// MaxPages caps the number of URLs visited per crawl, counting both
	// fetched pages and skips. 0 means unlimited.
	MaxPages int

	// Delay is the minimum interval between requests to one host.
	Delay time.Duration

	// Retries is the network attempt budget per page.
	Retries int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Workers is the number of concurrent fetches within a crawl.
	Workers int

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Empty means the fetcher's default identifying agent.
	UserAgent string

	// TitleTrimSuffix is removed from the end of every page title.
	TitleTrimSuffix string

	// ContentSelectors overrides the selector chain used to locate the
	// content root. Empty means the converter's default chain.
	ContentSelectors []string

	// CodeLanguages extends the language tokens recognized on bare
	// <code> classes.
	CodeLanguages []string

	// OutputDir is where rendered files are written.
	// Defaults to the XDG data directory (~/.local/share/docgrab on
	// Linux); override with --output for project-local files.
	OutputDir string

	// Combined writes all pages into one file with a table of contents
	// instead of per-page files.
	Combined bool

	// Context writes the condensed context file instead of per-page
	// files. May be combined with Combined.
	Context bool

	// JSONOutput writes the machine-readable crawl report to stdout
	// instead of rendering markdown files.
	JSONOutput bool

	// NoCache skips cache reads so every page is fetched fresh.
	// Fetched bodies are still written to the cache.
	NoCache bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// CacheDir is the directory holding the page cache database.
	// Defaults to the XDG cache directory.
	CacheDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .docgrab in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profiles holds per-site profiles and extra topic shortcuts loaded
	// from the config file.
	Profiles *File

	// Targets is the list of topics or URLs to fetch.
	// Must contain at least one entry.
	Targets []string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delay).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		AllowedPrefix:   DefaultAllowedPrefix,
		Depth:           DefaultDepth,
		Delay:           DefaultDelay,
		Retries:         DefaultRetries,
		Timeout:         DefaultTimeout,
		Workers:         DefaultWorkers,
		MaxBodySize:     DefaultMaxBodySize,
		TitleTrimSuffix: DefaultTitleTrimSuffix,
		OutputDir:       XDGDataDir(),
		CacheDir:        XDGCacheDir(),
	}
}

// XDGDataDir returns the XDG data directory for docgrab.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/docgrab
// On macOS: ~/Library/Application Support/docgrab
// On Windows: %LOCALAPPDATA%\docgrab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for docgrab.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/docgrab
// On macOS: ~/Library/Caches/docgrab
// On Windows: %LOCALAPPDATA%\docgrab\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one topic or URL to fetch
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Depth must be non-negative; 0 means the start page only
	if c.Depth < 0 {
		return ErrInvalidDepth
	}

	// Retries must be positive; zero attempts would fetch nothing
	if c.Retries <= 0 {
		return ErrInvalidRetries
	}

	// Workers must be positive; zero would mean no crawling
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// Delay must be non-negative
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// MaxPages must be non-negative; 0 means unlimited
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	// MaxBodySize must be non-negative
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
