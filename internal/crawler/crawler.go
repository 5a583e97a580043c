package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/docgrab/docgrab/internal/convert"
	"github.com/docgrab/docgrab/internal/fetch"
	"github.com/docgrab/docgrab/internal/model"
	"github.com/docgrab/docgrab/internal/urlutil"
)

// ErrUnsupportedScheme is returned when the start URL uses a scheme
// other than http or https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Crawler walks a documentation site breadth-first and converts every
// visited page. It carries configuration only; each Crawl call owns its
// session state, so one Crawler serves concurrent crawls.
type Crawler struct {
	// fetcher retrieves page bodies, applying cache, rate limit,
	// retries, and robots policy.
	fetcher *fetch.Fetcher

	// converter turns fetched bodies into Documents.
	converter *convert.Converter

	// maxDepth limits how deep to crawl from the starting URL.
	// 0 means only the starting page, 1 means one level of links, etc.
	maxDepth int

	// maxPages limits the total number of URLs visited, counting both
	// crawled pages and skips. 0 means unlimited.
	maxPages int

	// workers is the number of pages fetched concurrently within one
	// depth level.
	workers int

	// allowedPrefix confines discovered links to one URL subtree.
	// Empty means the start URL's scheme and host.
	allowedPrefix string

	// logger records per-page progress.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the starting page, 1 = starting page plus linked pages, etc.
func WithMaxDepth(depth int) Option {
	return func(c *Crawler) {
		c.maxDepth = depth
	}
}

// WithMaxPages caps the total number of URLs visited. 0 = unlimited.
func WithMaxPages(maxPages int) Option {
	return func(c *Crawler) {
		c.maxPages = maxPages
	}
}

// WithWorkers sets how many pages of the same depth are fetched
// concurrently. Values below 1 are treated as 1.
func WithWorkers(workers int) Option {
	return func(c *Crawler) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithAllowedPrefix confines the crawl to URLs under the given prefix.
func WithAllowedPrefix(prefix string) Option {
	return func(c *Crawler) {
		c.allowedPrefix = prefix
	}
}

// WithLogger sets the logger for crawl progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler using the given fetcher and converter.
//
// Design decision: We require both dependencies pre-built because:
//  1. The fetcher's cache, limiter, and robots wiring is the caller's
//     concern, and a shared limiter must outlive single crawls
//  2. The converter carries per-site selector and title settings
//  3. Tests can point both at a local server
func New(fetcher *fetch.Fetcher, converter *convert.Converter, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:   fetcher,
		converter: converter,
		maxDepth:  1,
		workers:   1,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result holds everything one crawl produced.
type Result struct {
	// Pages are the successfully crawled pages in breadth-first order.
	Pages []*model.Page

	// Skipped records every visited URL that produced no page, with
	// the reason.
	Skipped []model.Skip
}

// Crawl fetches the start URL and follows in-scope links breadth-first
// up to the configured depth. Fetch failures become Skipped entries,
// never an error. On cancellation the pages collected so far are
// returned together with the context's error.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*Result, error) {
	trimmed := strings.TrimSpace(startURL)
	start, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	// A bare host like "docs.example.com/guide" parses as a path.
	if start.Scheme == "" {
		start, err = url.Parse("https://" + trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid start URL: %w", err)
		}
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, start.Scheme)
	}
	if start.Host == "" {
		return nil, fmt.Errorf("invalid start URL: no host in %q", startURL)
	}

	prefix := c.allowedPrefix
	if prefix == "" {
		// Confine the crawl to the start host by default.
		prefix = start.Scheme + "://" + strings.ToLower(start.Host)
	}

	s := &session{
		visited:  make(map[string]bool),
		maxPages: c.maxPages,
	}

	wave := []target{{url: urlutil.Normalize(start.String()), depth: 0}}
	for len(wave) > 0 && ctx.Err() == nil {
		wave = c.crawlWave(ctx, s, wave, prefix)
	}

	if err := ctx.Err(); err != nil {
		c.logger.Info("crawl cancelled",
			"pages", len(s.pages), "skipped", len(s.skipped))
		return s.result(), err
	}

	c.logger.Info("crawl finished",
		"start", startURL, "pages", len(s.pages), "skipped", len(s.skipped))
	return s.result(), nil
}

// target is one URL scheduled at a crawl depth.
type target struct {
	url   string
	depth int
}

// crawlWave visits every target of one depth level and returns the next
// level's targets. Workers bound the fetch concurrency; each worker
// claims its target before fetching so no URL is visited twice.
func (c *Crawler) crawlWave(ctx context.Context, s *session, wave []target, prefix string) []target {
	var (
		mu   sync.Mutex
		next []target
	)

	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	for _, t := range wave {
		g.Go(func() error {
			// No new fetch starts after cancellation.
			if ctx.Err() != nil {
				return nil
			}
			if !s.claim(t.url) {
				return nil
			}

			page, err := c.visit(ctx, t, prefix)
			if err != nil {
				reason := skipReason(err)
				c.logger.Warn("page skipped", "url", t.url, "depth", t.depth, "reason", reason)
				s.recordSkip(model.Skip{URL: t.url, Depth: t.depth, Reason: reason})
				return nil
			}

			c.logger.Debug("page crawled",
				"url", t.url, "depth", t.depth,
				"title", page.Title, "links", len(page.OutboundLinks),
				"cached", page.FromCache)
			s.recordPage(page)

			if t.depth < c.maxDepth {
				mu.Lock()
				for _, link := range page.OutboundLinks {
					next = append(next, target{url: link, depth: t.depth + 1})
				}
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; failures are recorded as skips.
	_ = g.Wait()

	return next
}

// visit fetches one target and builds its Page.
func (c *Crawler) visit(ctx context.Context, t target, prefix string) (*model.Page, error) {
	res, err := c.fetcher.Fetch(ctx, t.url)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(t.url)
	if err != nil {
		return nil, err
	}

	conv := c.converter.Convert(res.Body)

	return &model.Page{
		URL:           t.url,
		Title:         conv.Title,
		Document:      conv.Document,
		OutboundLinks: ExtractLinks(res.Body, base, prefix),
		FetchedAt:     res.FetchedAt,
		Depth:         t.depth,
		FromCache:     res.FromCache,
	}, nil
}

// skipReason condenses a fetch failure into a Skip reason.
func skipReason(err error) string {
	var fe *fetch.FetchError
	if errors.As(err, &fe) {
		return fe.Reason()
	}
	return err.Error()
}

// session is the state of one Crawl call.
type session struct {
	mu sync.Mutex

	// visited holds every claimed URL. A URL is claimed before its
	// fetch starts and ends up in exactly one of pages or skipped.
	visited map[string]bool

	// claimed counts claims, bounding total visits under maxPages.
	claimed  int
	maxPages int

	pages   []*model.Page
	skipped []model.Skip
}

// claim marks a URL visited and reports whether the caller owns it.
// It refuses URLs already visited and claims beyond the page budget.
func (s *session) claim(rawURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visited[rawURL] {
		return false
	}
	if s.maxPages > 0 && s.claimed >= s.maxPages {
		return false
	}

	s.visited[rawURL] = true
	s.claimed++
	return true
}

// recordPage stores the outcome of a claimed URL that produced a page.
func (s *session) recordPage(page *model.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, page)
}

// recordSkip stores the outcome of a claimed URL that produced none.
func (s *session) recordSkip(skip model.Skip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = append(s.skipped, skip)
}

// result snapshots the session into a Result.
func (s *session) result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Result{
		Pages:   s.pages,
		Skipped: s.skipped,
	}
}
