package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/docgrab/docgrab/internal/crawler"
	"github.com/docgrab/docgrab/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the maximum number of crawl sessions running at
// once when no limit is configured. Sessions built on a shared fetcher
// also share its per-host rate limiter, so raising this never weakens
// per-host politeness.
const DefaultConcurrency = 4

// SessionFactory builds a crawler for one start URL.
//
// The batch calls the factory once per target, so each target can get a
// crawler configured for its own site (scope prefix, depth, content
// selectors) while all sessions share the same fetcher, cache, and
// per-host rate limiter.
type SessionFactory func(startURL string) *crawler.Crawler

// Result pairs one start URL with the outcome of its crawl session.
type Result struct {
	// StartURL is the URL the session began from.
	StartURL string

	// Summary aggregates the session's counters and timing.
	Summary *model.CrawlSummary

	// Pages are the session's pages in breadth-first order.
	Pages []*model.Page

	// Skipped records every visited URL that produced no page.
	Skipped []model.Skip
}

// Batch runs crawl sessions for multiple start URLs concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate Batch rather than teaching the
// crawler about multiple start URLs because:
//  1. It keeps the crawler focused on single-session execution
//  2. Each target can carry its own site configuration via the factory
//  3. Result order stays aligned with the argument order
type Batch struct {
	// sessionFactory creates a crawler for each start URL.
	sessionFactory SessionFactory

	// concurrency is the maximum number of concurrent sessions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed session results.
	// Access is synchronized via mutex.
	results []*Result
	mu      sync.Mutex
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithLogger sets a custom logger for batch-level logging.
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent crawl sessions.
// Non-positive values are ignored and the default is kept.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatch creates a new Batch.
//
// The sessionFactory is called for each start URL to create a fresh
// crawler instance. This keeps per-session state isolated and lets the
// caller pick per-target settings while sharing the expensive pieces
// (HTTP client, cache, rate limiter) underneath.
func NewBatch(sessionFactory SessionFactory, opts ...BatchOption) *Batch {
	b := &Batch{
		sessionFactory: sessionFactory,
		concurrency:    DefaultConcurrency,
		results:        make([]*Result, 0),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return b
}

// Run crawls all start URLs concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each target gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// A failed target never stops the rest of the batch; its failure is
// recorded in the result's summary. The error return is non-nil only
// when the batch was cancelled. On cancellation, results for targets
// that never started remain nil.
func (b *Batch) Run(ctx context.Context, startURLs []string) ([]*Result, error) {
	b.logger.Info("starting batch crawl",
		"total_targets", len(startURLs),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain argument order
	b.results = make([]*Result, len(startURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, startURL := range startURLs {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			b.logger.Info("crawling target",
				"start", startURL,
				"index", i+1,
				"total", len(startURLs),
			)

			result := b.crawlOne(ctx, startURL)

			// Store the result regardless of outcome so partial pages survive
			b.mu.Lock()
			b.results[i] = result
			b.mu.Unlock()

			if result.Summary.Cancelled {
				return ctx.Err()
			}

			if result.Summary.Error != "" {
				b.logger.Warn("crawl session failed",
					"start", startURL,
					"error", result.Summary.Error,
				)
				// Keep going; the failure is recorded in the summary.
				return nil
			}

			b.logger.Info("crawl session completed",
				"start", startURL,
				"pages", result.Summary.PagesFetched,
				"skipped", result.Summary.PagesSkipped,
			)

			return nil
		})
	}

	// Wait for all sessions to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	b.logger.Info("batch crawl complete",
		"total_targets", len(startURLs),
		"elapsed", elapsed,
	)

	return b.results, err
}

// crawlOne runs a single crawl session and folds its outcome into a
// Result. Session errors land in the summary instead of being returned;
// the crawler already confines fetch failures to skip records, so the
// only errors seen here are unusable start URLs and cancellation.
func (b *Batch) crawlOne(ctx context.Context, startURL string) *Result {
	startedAt := time.Now()

	c := b.sessionFactory(startURL)
	crawlResult, err := c.Crawl(ctx, startURL)
	if crawlResult == nil {
		crawlResult = &crawler.Result{}
	}

	summary := model.NewCrawlSummary(startURL, crawlResult.Pages, crawlResult.Skipped)
	summary.StartedAt = startedAt
	summary.Elapsed = time.Since(startedAt)
	if err != nil {
		summary.Error = err.Error()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			summary.Cancelled = true
		}
	}

	return &Result{
		StartURL: startURL,
		Summary:  summary,
		Pages:    crawlResult.Pages,
		Skipped:  crawlResult.Skipped,
	}
}

// Pages flattens the pages of every result, keeping batch order.
// Nil results (targets that never started) are skipped.
func Pages(results []*Result) []*model.Page {
	var pages []*model.Page
	for _, r := range results {
		if r == nil {
			continue
		}
		pages = append(pages, r.Pages...)
	}
	return pages
}

// Skips flattens the skip records of every result, keeping batch order.
// Nil results (targets that never started) are skipped.
func Skips(results []*Result) []model.Skip {
	var skips []model.Skip
	for _, r := range results {
		if r == nil {
			continue
		}
		skips = append(skips, r.Skipped...)
	}
	return skips
}
