// Package httpgateway implements the HTTP Gateway collaborator (SPEC_FULL.md
// §4.3): user-agent rotation, rate limiting, cookie jar, exponential-backoff
// retry on retryable status codes, SOCKS5/HTTP proxy support and a pluggable
// hardened backend for sites that challenge plain HTTP clients. Grounded on
// the teacher's pkg/web/client.go and pkg/web/browser.go.
package httpgateway

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/proxy"

	"mdc-go/internal/config"
	"mdc-go/internal/mdcerrors"
)

// HardenedBackend is satisfied by a browser-based fallback (chromedp) that
// can retrieve a page's rendered HTML when the plain client is challenged.
// cookies carries the gateway's own jar contents for rawURL so the backend
// can seed them into the browser session (age-verification/session cookies
// set via SetCookie before the challenge was ever hit).
type HardenedBackend interface {
	Fetch(ctx context.Context, rawURL string, cookies []*http.Cookie) (string, error)
	Close() error
}

// ProgressCallback reports retry backoff waits to an interested caller
// (e.g. pkg/ui), mirroring the teacher's client.
type ProgressCallback func(message string, elapsed, remaining time.Duration)

// Client is the HTTP Gateway: a *http.Client wrapper with retry, UA
// rotation, rate limiting and an optional hardened-backend fallback.
type Client struct {
	httpClient       *http.Client
	cfg              *config.NetworkConfig
	userAgents       []string
	uaIndex          int
	uaMutex          sync.Mutex
	rateLimiter      *rateLimiter
	cookieJar        http.CookieJar
	progressCallback ProgressCallback

	hardened HardenedBackend
}

// rateLimiter enforces a minimum interval between requests.
type rateLimiter struct {
	minInterval time.Duration
	last        time.Time
	mutex       sync.Mutex
}

func (rl *rateLimiter) wait() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if rl.minInterval <= 0 {
		return
	}
	elapsed := time.Since(rl.last)
	if elapsed < rl.minInterval {
		time.Sleep(rl.minInterval - elapsed)
	}
	rl.last = time.Now()
}

// New builds a Client from a NetworkConfig. rateLimit is the minimum
// interval enforced between requests (not part of NetworkConfig itself,
// since it is a per-call-site tuning knob rather than ambient config).
func New(cfg *config.NetworkConfig, rateLimit time.Duration) (*Client, error) {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifySSL,
		},
	}

	if cfg.ProxyServer != "" {
		if err := setupProxy(transport, cfg.ProxyServer); err != nil {
			return nil, fmt.Errorf("httpgateway: failed to configure proxy: %w", err)
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("httpgateway: failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout, Jar: jar},
		cfg:        cfg,
		userAgents: DefaultUserAgents(),
		cookieJar:  jar,
		rateLimiter: &rateLimiter{
			minInterval: rateLimit,
		},
	}, nil
}

// SetHardenedBackend installs a browser-based fallback, used automatically
// when a response looks like a bot-detection challenge.
func (c *Client) SetHardenedBackend(b HardenedBackend) {
	c.hardened = b
}

// SetProgressCallback wires retry-backoff progress reporting; rate-limiter
// waits are not reported.
func (c *Client) SetProgressCallback(cb ProgressCallback) {
	c.progressCallback = cb
}

// DefaultUserAgents returns the rotation pool used when no override is
// configured.
func DefaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Get performs a GET request with retry, rate limiting and hardened-backend
// auto-fallback. On success, the raw HTML body is returned as a string so
// the caller doesn't have to manage response-body lifetime.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", mdcerrors.Wrap(mdcerrors.Network, err, "failed to build request")
	}

	body, err := c.doWithRetry(req)
	if err != nil {
		if c.cfg.AutoFallback && c.hardened != nil && mdcerrors.LooksLikeCloudflareChallenge(strings.ToLower(err.Error())) {
			var cookies []*http.Cookie
			if c.cookieJar != nil {
				cookies = c.cookieJar.Cookies(req.URL)
			}
			html, ferr := c.hardened.Fetch(ctx, rawURL, cookies)
			if ferr != nil {
				return "", mdcerrors.Wrap(mdcerrors.Network, ferr, "hardened backend fallback failed")
			}
			return html, nil
		}
		return "", err
	}
	return body, nil
}

// Post performs a POST request with the same retry semantics as Get.
func (c *Client) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return "", mdcerrors.Wrap(mdcerrors.Network, err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.doWithRetry(req)
}

// GetWithHeaders performs a GET like Get, but lets the caller override or
// add request headers (e.g. Referer/Accept for image fetches) on top of
// the gateway's defaults. Used by internal/imagefetch, which needs a
// narrower Accept header and an origin-derived Referer that the shared
// adapter-facing Get doesn't set.
func (c *Client) GetWithHeaders(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", mdcerrors.Wrap(mdcerrors.Network, err, "failed to build request")
	}
	c.addHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.doWithRetryPreheadered(req)
}

func (c *Client) doWithRetry(req *http.Request) (string, error) {
	c.addHeaders(req)
	return c.doWithRetryPreheadered(req)
}

// doWithRetryPreheadered runs the retry/backoff loop against a request
// whose headers the caller has already finalized.
func (c *Client) doWithRetryPreheadered(req *http.Request) (string, error) {
	maxAttempts := c.cfg.Retries
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			c.backoff(attempt, maxAttempts)
		}

		c.rateLimiter.wait()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return "", mdcerrors.Wrap(mdcerrors.Cancelled, req.Context().Err(), "request cancelled")
			}
			lastErr = mdcerrors.Wrap(mdcerrors.Network, err, "request failed")
			continue
		}

		if mdcerrors.IsRetryableStatus(resp.StatusCode) && attempt < maxAttempts-1 {
			resp.Body.Close()
			lastErr = mdcerrors.NewHTTPStatus(resp.StatusCode, fmt.Sprintf("retryable status %d", resp.StatusCode))
			continue
		}

		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", mdcerrors.Wrap(mdcerrors.Network, err, "failed to read response body")
		}

		if resp.StatusCode == http.StatusNotFound {
			return "", mdcerrors.New(mdcerrors.NotFound, fmt.Sprintf("%s returned 404", req.URL))
		}
		if resp.StatusCode >= 400 {
			if mdcerrors.IsRetryableStatus(resp.StatusCode) {
				return "", mdcerrors.Wrap(mdcerrors.Network, mdcerrors.NewHTTPStatus(resp.StatusCode, string(data)),
					fmt.Sprintf("retryable status %d exhausted retries: %s", resp.StatusCode, data))
			}
			return "", mdcerrors.NewHTTPStatus(resp.StatusCode, string(data))
		}

		return string(data), nil
	}

	return "", lastErr
}

func (c *Client) backoff(attempt, maxAttempts int) {
	delay := time.Duration(math.Pow(2, float64(attempt))) * time.Second
	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond
	wait := delay + jitter

	if c.progressCallback != nil {
		start := time.Now()
		msg := fmt.Sprintf("Retrying (attempt %d/%d)", attempt+1, maxAttempts)
		for {
			elapsed := time.Since(start)
			remaining := wait - elapsed
			if remaining <= 0 {
				return
			}
			c.progressCallback(msg, elapsed, remaining)
			time.Sleep(100 * time.Millisecond)
		}
	}
	time.Sleep(wait)
}

func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
}

func (c *Client) nextUserAgent() string {
	c.uaMutex.Lock()
	defer c.uaMutex.Unlock()
	if len(c.userAgents) == 0 {
		return "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	ua := c.userAgents[c.uaIndex]
	c.uaIndex = (c.uaIndex + 1) % len(c.userAgents)
	return ua
}

func setupProxy(transport *http.Transport, proxyURL string) error {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", u.Host, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}
	return nil
}

// SetCookie installs a cookie directly into the jar, used to seed sites
// requiring an age-verification or Cloudflare clearance cookie (e.g. the
// mgstage adapter's adc=1 cookie).
func (c *Client) SetCookie(u *url.URL, cookie *http.Cookie) {
	if c.cookieJar != nil {
		c.cookieJar.SetCookies(u, []*http.Cookie{cookie})
	}
}

// Close releases pooled connections.
func (c *Client) Close() error {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	if c.hardened != nil {
		return c.hardened.Close()
	}
	return nil
}
