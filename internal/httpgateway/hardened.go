package httpgateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// ChromeBackend is the default HardenedBackend: a headless Chrome instance
// driven by chromedp, used only when the plain client trips
// mdcerrors.LooksLikeCloudflareChallenge. Grounded on the teacher's
// pkg/web/browser.go.
type ChromeBackend struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	timeout     time.Duration
}

// NewChromeBackend starts a headless Chrome allocator. The browser process
// is not spawned until the first Fetch call.
func NewChromeBackend(timeout time.Duration) *ChromeBackend {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	return &ChromeBackend{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
		timeout:     timeout,
	}
}

// Fetch navigates to rawURL, waits for a Cloudflare-style interstitial to
// clear (by polling the page title), and returns the rendered HTML. Any
// cookies already held by the gateway's jar for rawURL (an age-verification
// cookie set via Client.SetCookie, say) are pushed into the browser session
// via CDP before navigation, the same way the teacher's Browser.SetCookie
// uses cdproto/network.
func (b *ChromeBackend) Fetch(ctx context.Context, rawURL string, cookies []*http.Cookie) (string, error) {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()

	if err := setBrowserCookies(runCtx, rawURL, cookies); err != nil {
		return "", err
	}

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return "", err
	}

	if err := b.waitForChallenge(runCtx); err != nil {
		return "", err
	}

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

func (b *ChromeBackend) waitForChallenge(ctx context.Context) error {
	var title string
	if err := chromedp.Run(ctx, chromedp.Title(&title)); err != nil {
		return err
	}
	if !looksLikeChallengeTitle(title) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			var next string
			if err := chromedp.Run(ctx, chromedp.Title(&next)); err != nil {
				return err
			}
			if next != title && !looksLikeChallengeTitle(next) {
				return nil
			}
		}
	}
}

// setBrowserCookies pushes each cookie into the browser's network session,
// scoped to rawURL's host, via cdproto/network.SetCookie.
func setBrowserCookies(ctx context.Context, rawURL string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, cookie := range cookies {
			domain := cookie.Domain
			if domain == "" {
				domain = u.Hostname()
			}
			if err := network.SetCookie(cookie.Name, cookie.Value).
				WithDomain(domain).
				Do(ctx); err != nil {
				return err
			}
		}
		return nil
	}))
}

func looksLikeChallengeTitle(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "just a moment") || strings.Contains(lower, "checking your browser")
}

// Close tears down the Chrome process.
func (b *ChromeBackend) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}
