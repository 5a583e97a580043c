package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/docgrab/docgrab/internal/cache"
	"github.com/docgrab/docgrab/internal/model"
	"github.com/docgrab/docgrab/internal/urlutil"
)

// DefaultUserAgent identifies docgrab to documentation servers, with a
// pointer operators can follow from their access logs.
const DefaultUserAgent = "docgrab/1.0 (+https://github.com/docgrab/docgrab)"

// RobotsPolicy reports whether a URL may be fetched from the network.
// Implementations should fail open: when the policy cannot be
// determined, the fetch proceeds.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Fetcher retrieves page bodies through the cache, the politeness
// limiter, and a bounded retry loop.
//
// Design decision: We require an external *http.Client because:
//  1. Transport policy (timeout, proxies, TLS) belongs to the caller
//  2. Consistent with how the crawler receives its fetcher
//  3. Allows httptest clients in tests
type Fetcher struct {
	// client performs the HTTP requests.
	client *http.Client

	// store caches page bodies. Nil disables caching entirely.
	store cache.Store

	// limiter spaces network requests per host. Cache hits bypass it.
	limiter *HostLimiter

	// robots gates network fetches. Nil means no robots checking.
	robots RobotsPolicy

	// logger records cache and retry activity at debug level.
	logger *slog.Logger

	// maxRetries is the network attempt budget per page.
	maxRetries int

	// backoffBase is the first retry's sleep; attempt n sleeps
	// backoffBase*2^n.
	backoffBase time.Duration

	// maxBodySize caps how many response bytes are read.
	maxBodySize int64

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// bypassCache skips cache reads while keeping cache writes.
	bypassCache bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxRetries sets how many network attempts a transiently failing
// page is given before the fetch is abandoned.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBackoffBase sets the base retry backoff. The sleep doubles after
// each failed attempt. Tests set this near zero.
func WithBackoffBase(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithCacheBypass skips cache reads while keeping cache writes.
// A bypassing session always fetches fresh content but still leaves
// the cache warm for the next session.
func WithCacheBypass(bypass bool) Option {
	return func(f *Fetcher) {
		f.bypassCache = bypass
	}
}

// WithRobotsPolicy gates network fetches behind robots.txt.
func WithRobotsPolicy(p RobotsPolicy) Option {
	return func(f *Fetcher) {
		f.robots = p
	}
}

// WithLogger sets the logger for cache and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher. The store may be nil to disable
// caching; a nil limiter gets a private one with a one second interval.
func NewFetcher(client *http.Client, store cache.Store, limiter *HostLimiter, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		store:       store,
		limiter:     limiter,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxRetries:  3,
		backoffBase: 1 * time.Second,
		maxBodySize: model.MaxBodySize,
		userAgent:   DefaultUserAgent,
	}

	if f.limiter == nil {
		f.limiter = NewHostLimiter(1 * time.Second)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Result is one successfully fetched body.
type Result struct {
	// Body is the raw response body, truncated at the size cap.
	Body []byte

	// FetchedAt is when the body left the origin. For a cache hit this
	// is the stored entry's fetch time, not now.
	FetchedAt time.Time

	// FromCache reports whether the body was served locally.
	FromCache bool
}

// Fetch returns the body for pageURL, consulting the cache first.
// A cache hit returns immediately with no politeness delay. Network
// failures are retried with exponential backoff, and the returned error
// is always a *FetchError when the page cannot be produced.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	canonical := urlutil.Normalize(pageURL)

	if !f.bypassCache && f.store != nil {
		entry, err := f.store.Get(ctx, canonical)
		if err != nil {
			// A broken cache degrades to a network fetch
			f.logger.Warn("cache read failed", "url", canonical, "error", err)
		} else if entry != nil {
			f.logger.Debug("cache hit", "url", canonical)
			return &Result{Body: entry.Body, FetchedAt: entry.FetchedAt, FromCache: true}, nil
		}
	}

	if f.robots != nil && !f.robots.Allowed(ctx, canonical) {
		return nil, &FetchError{URL: canonical, Kind: Permanent, Err: ErrRobotsDisallowed}
	}

	u, err := url.Parse(canonical)
	if err != nil {
		return nil, &FetchError{URL: canonical, Kind: Permanent, Err: err}
	}

	var lastStatus int
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.backoffBase << (attempt - 1)
			f.logger.Debug("retrying", "url", canonical, "attempt", attempt+1, "backoff", backoff)
			if err := sleep(ctx, backoff); err != nil {
				return nil, &FetchError{URL: canonical, Kind: Transient, StatusCode: lastStatus, Attempts: attempt, Err: err}
			}
		}

		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, &FetchError{URL: canonical, Kind: Transient, StatusCode: lastStatus, Attempts: attempt, Err: err}
		}

		body, status, err := f.doRequest(ctx, canonical)
		switch {
		case err != nil:
			// Transport-level failure (timeout, reset, DNS): retry
			lastErr = err
			lastStatus = 0

		case status >= 400 && !isRetryableStatus(status):
			return nil, &FetchError{URL: canonical, Kind: Permanent, StatusCode: status, Attempts: attempt + 1}

		case status >= 400:
			lastErr = nil
			lastStatus = status

		default:
			now := time.Now()
			if f.store != nil {
				entry := &cache.Entry{URL: canonical, Body: body, FetchedAt: now}
				if err := f.store.Put(ctx, entry); err != nil {
					// A failed cache write must not fail the fetch
					f.logger.Warn("cache write failed", "url", canonical, "error", err)
				}
			}
			f.limiter.Record(u.Host)
			return &Result{Body: body, FetchedAt: now, FromCache: false}, nil
		}
	}

	return nil, &FetchError{URL: canonical, Kind: Transient, StatusCode: lastStatus, Attempts: f.maxRetries, Err: lastErr}
}

// doRequest performs one GET and reads the body up to the size cap.
func (f *Fetcher) doRequest(ctx context.Context, pageURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

// isRetryableStatus reports whether an HTTP status is worth retrying.
// Server-side failures and throttling responses are; any other client
// error means the origin has made up its mind.
func isRetryableStatus(status int) bool {
	return status >= 500 ||
		status == http.StatusTooManyRequests ||
		status == http.StatusRequestTimeout
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
