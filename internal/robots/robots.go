package robots

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// DefaultCacheTTL is how long fetched robots.txt rules stay valid.
const DefaultCacheTTL = 30 * time.Minute

// Agent answers robots.txt queries for crawled URLs. Rules are fetched
// per host and cached; one Agent serves all hosts of a crawl.
type Agent struct {
	// client fetches robots.txt files. Robots requests bypass the page
	// fetch pipeline: they are not cached as pages and not rate limited
	// against page fetches.
	client *http.Client

	// userAgent is sent when fetching robots.txt and matched against
	// the file's User-agent groups.
	userAgent string

	// ttl bounds how long cached rules are trusted.
	ttl time.Duration

	// respect disables all checks when false; every URL is allowed.
	respect bool

	// overrides lists hosts exempt from robots.txt entirely.
	overrides map[string]struct{}

	// logger records fetch failures at debug level.
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	fetched time.Time
	rules   *robotstxt.RobotsData
}

// Option configures an Agent.
type Option func(*Agent)

// WithUserAgent sets the agent string used for fetching and for
// matching User-agent groups.
func WithUserAgent(ua string) Option {
	return func(a *Agent) {
		a.userAgent = ua
	}
}

// WithCacheTTL sets how long fetched rules stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Agent) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithRespect toggles rule evaluation. When false every URL is allowed
// and no robots.txt is fetched.
func WithRespect(respect bool) Option {
	return func(a *Agent) {
		a.respect = respect
	}
}

// WithOverrides exempts the given hosts from robots.txt checks.
func WithOverrides(hosts []string) Option {
	return func(a *Agent) {
		for _, host := range hosts {
			host = strings.ToLower(strings.TrimSpace(host))
			if host != "" {
				a.overrides[host] = struct{}{}
			}
		}
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// NewAgent creates an Agent using the given HTTP client.
func NewAgent(client *http.Client, opts ...Option) *Agent {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	a := &Agent{
		client:    client,
		ttl:       DefaultCacheTTL,
		respect:   true,
		overrides: make(map[string]struct{}),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:     make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Allowed reports whether the target URL may be fetched. Invalid or
// relative URLs are refused; transport failures while fetching the
// rules allow the URL.
func (a *Agent) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || !target.IsAbs() || target.Host == "" {
		return false
	}

	if !a.respect {
		return true
	}

	host := strings.ToLower(target.Hostname())
	if _, ok := a.overrides[host]; ok {
		return true
	}

	rules, err := a.rules(ctx, target)
	if err != nil {
		a.logger.Debug("robots.txt unavailable, allowing", "host", target.Host, "error", err)
		return true
	}

	// TestAgent honors the status-derived rule sets (4xx allows all,
	// 5xx disallows all) before any group matching.
	return rules.TestAgent(target.Path, a.userAgent)
}

// rules returns the cached rules for the target's host, fetching them
// when missing or expired.
func (a *Agent) rules(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	host := strings.ToLower(target.Host)

	a.mu.RLock()
	entry, ok := a.cache[host]
	if ok && time.Since(entry.fetched) < a.ttl {
		a.mu.RUnlock()
		return entry.rules, nil
	}
	a.mu.RUnlock()

	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The library maps status codes to rules: 2xx parses the body,
	// 4xx allows everything, 5xx disallows everything.
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[host] = cacheEntry{fetched: time.Now(), rules: data}
	a.mu.Unlock()

	return data, nil
}

// Purge evicts cached rules for a host.
func (a *Agent) Purge(host string) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return
	}
	a.mu.Lock()
	delete(a.cache, host)
	a.mu.Unlock()
}
