// Package sheet talks to the published spreadsheet: it fetches CSV exports
// with a persistent-cache fallback, maps raw rows onto canonical typed rows,
// and posts edits to the write webhook.
package sheet

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"encuentro/internal/cache"
)

const (
	defaultUserAgent = "encuentro/0.1"
	// Keep the origin attempt short so the cache fallback engages instead of
	// hanging a tick behind a dead connection.
	requestTimeout = 10 * time.Second
)

// cacheBusters are query parameters appended on interactive reloads. They
// must not reach the cache key or every reload becomes a miss.
var cacheBusters = map[string]bool{"t": true, "cb": true}

// Client resolves "get current data for URL" against the network or the
// persistent cache. Online is consulted freshly on every call.
type Client struct {
	http      *http.Client
	cache     *cache.Store
	online    func() bool
	userAgent string
}

// NewClient builds a Client over the given cache store. online may be nil, in
// which case a non-loopback interface probe is used.
func NewClient(store *cache.Store, online func() bool) *Client {
	if online == nil {
		online = InterfacesOnline
	}
	return &Client{
		http:      &http.Client{Timeout: requestTimeout},
		cache:     store,
		online:    online,
		userAgent: defaultUserAgent,
	}
}

// Fetch returns the current payload for rawURL. Online it hits the origin
// with transport caching disabled, writes the body through to the cache, and
// returns it; on any fetch failure it falls back to the cached copy. Offline
// it serves the cache directly. Errors are *NetworkError or
// *NoCachedDataError depending on which path ran out of options.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	key := CacheKey(rawURL)

	if !c.online() {
		if payload, ok := c.cache.Get(key); ok {
			return payload, nil
		}
		return "", &NoCachedDataError{URL: rawURL}
	}

	payload, err := c.fetchOrigin(ctx, rawURL)
	if err != nil {
		// Online by the probe's account, but the request still failed
		// (captive portal, DNS blip, origin down). Same fallback as offline.
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
		return "", &NetworkError{URL: rawURL, Err: err}
	}

	c.cache.Put(key, payload)
	return payload, nil
}

func (c *Client) fetchOrigin(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	// Always hit origin, never a transport-level cache.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("origin returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// CacheKey normalizes rawURL into the key one remote resource is cached
// under: cache-buster parameters are stripped, remaining parameters sorted,
// and an empty query dropped.
func CacheKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	values := u.Query()
	for param := range cacheBusters {
		values.Del(param)
	}
	if len(values) == 0 {
		u.RawQuery = ""
		return u.String()
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	u.RawQuery = b.String()
	return u.String()
}

// WithCacheBuster appends a fresh cache-buster parameter for an interactive
// reload. CacheKey strips it again before the cache is touched.
func WithCacheBuster(rawURL string, now time.Time) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	values := u.Query()
	values.Set("t", fmt.Sprintf("%d", now.UnixMilli()))
	u.RawQuery = values.Encode()
	return u.String()
}

// InterfacesOnline reports whether any non-loopback interface is up. Like a
// browser's online flag it can claim online while a request still fails;
// Fetch's cache fallback covers that case.
func InterfacesOnline() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}
