package craigslist

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/chromedp/chromedp"
)

// ErrSessionLost signals that the browser session or its transport is gone
// (driver crash, lost connectivity, user interrupt). The batch stops at that
// point; whatever was accumulated is still handed downstream.
var ErrSessionLost = errors.New("browser session lost")

// Session owns one headless browser for the lifetime of a crawl batch. All
// navigation and extraction run serially in its single tab, mirroring a human
// browsing the site.
type Session struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewSession starts a browser bound to parent; cancelling parent (e.g. on
// SIGINT) tears the session down mid-crawl.
func NewSession(parent context.Context, chromeBin string, headless bool) *Session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(chromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Session{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}
}

// Context returns the long-lived tab context. Per-operation deadlines are
// derived from it so a timeout never kills the tab itself.
func (s *Session) Context() context.Context {
	return s.browserCtx
}

// Lost reports whether the session is no longer usable.
func (s *Session) Lost() bool {
	return s.browserCtx.Err() != nil
}

// Close shuts the browser down. Safe to call on every exit path.
func (s *Session) Close() {
	s.cancelBrowser()
	s.cancelAlloc()
}

// classifyErr separates a dead session from an ordinary listing-level failure.
// A deadline on the derived context with a healthy tab is the latter; a
// cancelled tab context or a broken transport is the former.
func (s *Session) classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if s.Lost() || errors.Is(err, context.Canceled) {
		return ErrSessionLost
	}
	msg := err.Error()
	if strings.Contains(msg, "websocket") || strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "chrome failed to start") {
		return ErrSessionLost
	}
	return err
}

// findChromeBinary locates the Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
