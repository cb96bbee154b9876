// Package searchsuggest queries search-provider autocomplete endpoints.
package searchsuggest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/wayfinder/internal/application/port"
	"github.com/bnema/wayfinder/internal/domain/url"
	"github.com/bnema/wayfinder/internal/infrastructure/cache"
	"github.com/bnema/wayfinder/internal/logging"
)

const (
	defaultTimeout   = 3 * time.Second
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
	maxBodyBytes     = 1 << 20
)

var errBadResponse = errors.New("unusable autocomplete response")

// Config configures a Fetcher.
type Config struct {
	HTTPClient *http.Client
	CacheSize  int
	CacheTTL   time.Duration
	UserAgent  string
	// Timeout bounds one shared request, independently of the callers
	// waiting on it.
	Timeout time.Duration
}

// Fetcher implements port.SearchSuggestionFetcher over HTTP. Identical
// in-flight queries share one request and results are cached briefly.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	cache     port.Cache[string, []string]
	group     singleflight.Group
}

var _ port.SearchSuggestionFetcher = (*Fetcher)(nil)

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		cache:     cache.NewLRU[string, []string](size, cache.WithTTL(ttl)),
	}
}

// Fetch returns the provider's suggestions for query. A missing endpoint,
// a failed request or an unparsable body yields an empty list.
func (f *Fetcher) Fetch(ctx context.Context, autocompleteURL, query string) ([]string, error) {
	log := logging.FromContext(ctx).With().Str("component", "search-suggest").Logger()

	query = strings.TrimSpace(query)
	if autocompleteURL == "" || query == "" {
		return []string{}, nil
	}
	target := url.BuildSearchURL(autocompleteURL, query)
	if !url.IsHTTP(target) {
		log.Debug().Str("url", logging.TruncateURL(target, 120)).Msg("autocomplete endpoint is not http")
		return []string{}, nil
	}

	if cached, ok := f.cache.Get(target); ok {
		return cached, nil
	}

	// The shared request outlives any one caller; each caller stops
	// waiting when its own context ends.
	ch := f.group.DoChan(target, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.fetch(fetchCtx, target)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		log.Debug().Err(res.Err).Str("url", logging.TruncateURL(target, 120)).Msg("search suggestions unavailable")
		return []string{}, nil
	}

	results := res.Val.([]string)
	f.cache.Set(target, results)
	return results, nil
}

func (f *Fetcher) fetch(ctx context.Context, target string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/x-suggestions+json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", errBadResponse, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}
	return Parse(body)
}

// Parse extracts suggestions from an OpenSearch body (["q", ["a", "b"]])
// or a list of {"phrase": ...} objects.
func Parse(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", errBadResponse)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: not an array", errBadResponse)
	}

	var items []gjson.Result
	if second := root.Get("1"); second.IsArray() {
		items = second.Array()
	} else {
		items = root.Get("#.phrase").Array()
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			continue
		}
		if s := strings.TrimSpace(item.Str); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
