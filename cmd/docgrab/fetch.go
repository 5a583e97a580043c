package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docgrab/docgrab/internal/cache"
	"github.com/docgrab/docgrab/internal/config"
	"github.com/docgrab/docgrab/internal/convert"
	"github.com/docgrab/docgrab/internal/crawler"
	"github.com/docgrab/docgrab/internal/fetch"
	"github.com/docgrab/docgrab/internal/log"
	"github.com/docgrab/docgrab/internal/model"
	"github.com/docgrab/docgrab/internal/pipeline"
	"github.com/docgrab/docgrab/internal/render"
	"github.com/docgrab/docgrab/internal/robots"
)

// Titles for the aggregate output documents.
const (
	combinedTitle = "Documentation (Combined)"
	contextTitle  = "Reference Documentation"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [topic|url]...",
		Short: "Crawl documentation pages and save them as Markdown",
		Long: `Fetch crawls one or more documentation targets and converts every page
into structured Markdown.

A target may be a topic shortcut (see "docgrab topics"), a documentation
slug, or a URL. Arguments containing a dot or slash are treated as URLs;
everything else is resolved against the base URL. Each target is crawled
breadth-first up to --depth link levels, honoring robots.txt and keeping
a minimum delay between requests to the same host.

Examples:
  # Fetch a topic hub page and the pages it links to
  docgrab fetch behavior-tree

  # Fetch several topics in one run, two link levels deep
  docgrab fetch --depth 2 ai navigation blueprint

  # Fetch an arbitrary documentation URL into one combined file
  docgrab fetch --combined https://docs.example.com/en/latest/intro

  # Machine-readable crawl report on stdout
  docgrab fetch --json lumen

Configuration file (.docgrab) example:
  defaults:
    delay: 2s
  sites:
    docs.example.com:
      titleTrimSuffix: " - Example Docs"
      depth: 2`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"Maximum link-following depth (0 fetches only the start page)")
	cmd.Flags().Int("max-pages", 0,
		"Maximum number of pages to visit per target (0 = unlimited)")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Minimum interval between requests to the same host")
	cmd.Flags().Int("retries", config.DefaultRetries,
		"Network attempts per page before it is skipped")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().Int("workers", config.DefaultWorkers,
		"Concurrent fetches within one crawl")

	// Target resolution flags
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Base URL topic slugs are resolved against")
	cmd.Flags().String("allow-prefix", config.DefaultAllowedPrefix,
		"URL prefix the crawl is confined to")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Output directory for rendered files (default: XDG data directory)")
	cmd.Flags().Bool("combined", false,
		"Write all pages into a single file with a table of contents")
	cmd.Flags().Bool("context", false,
		"Write all pages into one condensed context file")
	cmd.Flags().Bool("json", false,
		"Write a machine-readable crawl report to stdout")
	cmd.Flags().Bool("no-cache", false,
		"Skip cache reads and fetch every page fresh")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docgrab in current or home directory)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	// A missing target is the one error that warrants usage output
	if len(args) == 0 {
		_ = cmd.Help()
		return config.ErrNoTarget
	}

	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runFetch(ctx, cfg, newFlagOverrides(cmd), cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// flagOverrides records which precedence-relevant flags were set
// explicitly on the command line. An explicit flag beats the site
// profile; a profile value applies only where the user kept the default.
type flagOverrides struct {
	depth       bool
	delay       bool
	baseURL     bool
	allowPrefix bool
}

// newFlagOverrides captures which flags the user set explicitly.
func newFlagOverrides(cmd *cobra.Command) flagOverrides {
	return flagOverrides{
		depth:       cmd.Flags().Changed("depth"),
		delay:       cmd.Flags().Changed("delay"),
		baseURL:     cmd.Flags().Changed("base-url"),
		allowPrefix: cmd.Flags().Changed("allow-prefix"),
	}
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Depth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Retries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.BaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	cfg.AllowedPrefix, err = cmd.Flags().GetString("allow-prefix")
	if err != nil {
		return nil, err
	}

	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	cfg.Combined, err = cmd.Flags().GetBool("combined")
	if err != nil {
		return nil, err
	}

	cfg.Context, err = cmd.Flags().GetBool("context")
	if err != nil {
		return nil, err
	}

	cfg.JSONOutput, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.NoCache, err = cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site profiles and topic shortcuts from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.Profiles = &config.File{
			Sites: make(map[string]config.SiteProfile),
		}
	}

	// Get positional arguments (topics or URLs)
	cfg.Targets = args

	return cfg, nil
}

// runFetch crawls every target and writes the requested outputs.
func runFetch(ctx context.Context, cfg *config.Config, overrides flagOverrides, out io.Writer, logger *slog.Logger) error {
	if cfg.Profiles == nil {
		cfg.Profiles = &config.File{Sites: make(map[string]config.SiteProfile)}
	}

	// Resolve each argument into a start URL
	baseURL := effectiveBaseURL(cfg, overrides)
	targets := make([]string, len(cfg.Targets))
	for i, arg := range cfg.Targets {
		targets[i] = resolveTarget(baseURL, arg, cfg.Profiles.Topics)
	}

	logger.Info("starting fetch",
		"targets", targets,
		"depth", cfg.Depth,
		"workers", cfg.Workers,
		"outputDir", cfg.OutputDir,
	)

	// Open the page cache
	store, err := cache.OpenSQLite(cfg.CacheDir, cache.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()
	logger.Info("cache opened", "path", store.Path())

	// One HTTP client, robots agent, rate limiter, and fetcher serve the
	// whole batch. Sessions run concurrently, but the per-host delay is
	// enforced across all of them.
	client := &http.Client{Timeout: cfg.Timeout}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = fetch.DefaultUserAgent
	}
	robotsAgent := robots.NewAgent(client,
		robots.WithUserAgent(userAgent),
		robots.WithLogger(logger),
	)

	limiter := fetch.NewHostLimiter(slowestDelay(cfg, overrides, targets))

	fetchOpts := []fetch.Option{
		fetch.WithMaxRetries(cfg.Retries),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithCacheBypass(cfg.NoCache),
		fetch.WithRobotsPolicy(robotsAgent),
		fetch.WithLogger(logger),
	}
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	fetcher := fetch.NewFetcher(client, store, limiter, fetchOpts...)

	// Each target gets a crawler configured for its own site profile
	factory := func(startURL string) *crawler.Crawler {
		return newSession(cfg, overrides, fetcher, startURL, logger)
	}
	batch := pipeline.NewBatch(factory, pipeline.WithLogger(logger))

	startedAt := time.Now()
	results, runErr := batch.Run(ctx, targets)
	elapsed := time.Since(startedAt)

	pages := pipeline.Pages(results)
	skips := pipeline.Skips(results)

	if !cfg.JSONOutput {
		printResults(out, results, targets)
	}

	if len(pages) == 0 {
		if runErr != nil {
			return runErr
		}
		return errors.New("no pages fetched successfully")
	}

	// Outputs cover whatever completed, even when the batch was cancelled
	if err := writeOutputs(cfg, out, results, pages, skips, startedAt, elapsed); err != nil {
		return err
	}

	if !cfg.JSONOutput {
		fmt.Fprintf(out, "Fetched %d page(s) total\n", len(pages))
		fmt.Fprintf(out, "Output directory: %s\n", cfg.OutputDir)
	}

	return runErr
}

// effectiveBaseURL returns the base URL topic slugs resolve against.
// An explicit --base-url wins over the config file defaults.
func effectiveBaseURL(cfg *config.Config, overrides flagOverrides) string {
	if overrides.baseURL {
		return cfg.BaseURL
	}
	if cfg.Profiles != nil && cfg.Profiles.Defaults.BaseURL != "" {
		return cfg.Profiles.Defaults.BaseURL
	}
	return cfg.BaseURL
}

// resolveTarget turns one command line argument into a start URL.
// Arguments containing a dot or slash are URLs; a missing scheme
// defaults to https. Anything else is a topic shortcut or slug resolved
// against the base URL.
func resolveTarget(baseURL, arg string, topics map[string]string) string {
	trimmed := strings.TrimSpace(arg)
	if strings.Contains(trimmed, "/") || strings.Contains(trimmed, ".") {
		if !strings.Contains(trimmed, "://") {
			return "https://" + trimmed
		}
		return trimmed
	}
	return strings.TrimRight(baseURL, "/") + "/" + config.ResolveTopic(trimmed, topics)
}

// targetHost extracts the host of a target URL for profile lookup.
func targetHost(target string) string {
	raw := target
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// slowestDelay picks the interval for the batch's shared host limiter.
// Without an explicit --delay it takes the slowest delay any target's
// site profile asks for, so the shared limiter never undercuts a
// profile's politeness setting.
func slowestDelay(cfg *config.Config, overrides flagOverrides, targets []string) time.Duration {
	if overrides.delay {
		return cfg.Delay
	}
	delay := cfg.Delay
	for _, target := range targets {
		if prof := cfg.Profiles.ProfileFor(targetHost(target)); prof.Delay.Duration > delay {
			delay = prof.Delay.Duration
		}
	}
	return delay
}

// newSession builds the crawler for one start URL, applying the site
// profile of the target's host.
func newSession(cfg *config.Config, overrides flagOverrides, fetcher *fetch.Fetcher, startURL string, logger *slog.Logger) *crawler.Crawler {
	prof := cfg.Profiles.ProfileFor(targetHost(startURL))

	depth := cfg.Depth
	if !overrides.depth && prof.Depth != 0 {
		depth = prof.Depth
	}

	titleTrim := cfg.TitleTrimSuffix
	if prof.TitleTrimSuffix != "" {
		titleTrim = prof.TitleTrimSuffix
	}

	convOpts := []convert.Option{
		convert.WithTitleTrimSuffix(titleTrim),
		convert.WithLogger(logger),
	}
	if selectors := firstNonEmpty(prof.ContentSelectors, cfg.ContentSelectors); len(selectors) > 0 {
		convOpts = append(convOpts, convert.WithContentSelectors(selectors))
	}
	if languages := firstNonEmpty(prof.CodeLanguages, cfg.CodeLanguages); len(languages) > 0 {
		convOpts = append(convOpts, convert.WithCodeLanguages(languages))
	}

	// Relative links on every page of this session resolve against the
	// target's own URL
	converter, err := convert.New(startURL, convOpts...)
	if err != nil {
		// The crawler rejects the unparseable start URL before any
		// page reaches this converter
		converter, _ = convert.New("", convOpts...)
	}

	return crawler.New(fetcher, converter,
		crawler.WithMaxDepth(depth),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithAllowedPrefix(allowedPrefixFor(cfg, overrides, prof, startURL)),
		crawler.WithLogger(logger),
	)
}

// firstNonEmpty returns the first slice with entries.
func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

// allowedPrefixFor picks the crawl confinement prefix for one target.
// The packaged default prefix only applies to targets it actually
// covers; for other sites the crawl falls back to the crawler's
// same-host confinement.
func allowedPrefixFor(cfg *config.Config, overrides flagOverrides, prof config.SiteProfile, startURL string) string {
	if overrides.allowPrefix {
		return cfg.AllowedPrefix
	}
	if prof.AllowedPrefix != "" {
		return prof.AllowedPrefix
	}
	if strings.HasPrefix(startURL, cfg.AllowedPrefix) {
		return cfg.AllowedPrefix
	}
	return ""
}

// printResults prints one line per target with its session counters.
func printResults(out io.Writer, results []*pipeline.Result, targets []string) {
	for i, result := range results {
		prefix := fmt.Sprintf("[%d/%d] %s:", i+1, len(targets), targets[i])
		switch {
		case result == nil || result.Summary == nil:
			fmt.Fprintf(out, "%s not started\n", prefix)
		case result.Summary.Error != "":
			fmt.Fprintf(out, "%s failed: %s\n", prefix, result.Summary.Error)
		default:
			fmt.Fprintf(out, "%s %d page(s), %d skipped, %d from cache in %s\n",
				prefix,
				result.Summary.PagesFetched,
				result.Summary.PagesSkipped,
				result.Summary.CacheHits,
				result.Summary.Elapsed.Round(time.Millisecond),
			)
		}
	}
}

// writeOutputs renders the crawl outcome in the requested formats.
// The JSON report goes to out; file formats land in the output
// directory. Per-page files are the default and are suppressed when any
// aggregate format was requested.
func writeOutputs(cfg *config.Config, out io.Writer, results []*pipeline.Result, pages []*model.Page, skips []model.Skip, startedAt time.Time, elapsed time.Duration) error {
	if cfg.JSONOutput {
		report := render.NewJSONReport(getVersion(), batchSummary(results, startedAt, elapsed), pages, skips)
		if _, err := render.NewJSONWriter(out, render.WithPrettyPrint()).Write(report); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
	}

	if cfg.Combined {
		data, err := render.CombinedMarkdown(combinedTitle, pages)
		if err != nil {
			return fmt.Errorf("failed to render combined file: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, config.DefaultCombinedFile)
		if err := render.WriteFile(path, []byte(data)); err != nil {
			return fmt.Errorf("failed to write combined file: %w", err)
		}
		if !cfg.JSONOutput {
			fmt.Fprintf(out, "Saved combined file: %s (%d pages)\n", path, len(pages))
		}
	}

	if cfg.Context {
		data := render.ContextMarkdown(contextTitle, pages)
		path := filepath.Join(cfg.OutputDir, config.DefaultContextFile)
		if err := render.WriteFile(path, []byte(data)); err != nil {
			return fmt.Errorf("failed to write context file: %w", err)
		}
		if !cfg.JSONOutput {
			fmt.Fprintf(out, "Saved context file: %s (%d pages)\n", path, len(pages))
		}
	}

	// Per-page files unless an aggregate format was requested
	if !cfg.Combined && !cfg.Context && !cfg.JSONOutput {
		paths, err := render.WritePageFiles(cfg.OutputDir, pages)
		if err != nil {
			return fmt.Errorf("failed to write page files: %w", err)
		}
		fmt.Fprintf(out, "Saved %d page file(s) to %s\n", len(paths), cfg.OutputDir)
	}

	return nil
}

// batchSummary aggregates per-target summaries into one report-level
// summary. Timing covers the whole batch rather than a single session.
func batchSummary(results []*pipeline.Result, startedAt time.Time, elapsed time.Duration) *model.CrawlSummary {
	summary := &model.CrawlSummary{
		StartedAt: startedAt,
		Elapsed:   elapsed,
	}
	for _, result := range results {
		if result == nil || result.Summary == nil {
			continue
		}
		if summary.StartURL == "" {
			summary.StartURL = result.Summary.StartURL
		}
		summary.PagesFetched += result.Summary.PagesFetched
		summary.PagesSkipped += result.Summary.PagesSkipped
		summary.CacheHits += result.Summary.CacheHits
		if result.Summary.Cancelled {
			summary.Cancelled = true
		}
		if summary.Error == "" && result.Summary.Error != "" {
			summary.Error = result.Summary.Error
		}
	}
	return summary
}
