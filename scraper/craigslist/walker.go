package craigslist

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"craigslist-scraper/config"
	"craigslist-scraper/utils"
)

// pager is one results page and the ability to move to the next. The walker
// only needs these two operations, which keeps its loop testable without a
// browser.
type pager interface {
	// Links returns the detail-page URLs visible on the current page.
	Links() ([]string, error)
	// Advance moves to the next results page. It returns false when no next
	// control exists or clicking it did not change the page.
	Advance() (bool, error)
}

// Walker accumulates detail-page URLs across results pages, deduplicated by
// exact string, preserving first-seen order.
type Walker struct {
	pager  pager
	logger *logrus.Logger
}

// NewWalker creates a Walker over the given pager.
func NewWalker(p pager, logger *logrus.Logger) *Walker {
	return &Walker{pager: p, logger: logger}
}

// Walk reads the current page, advances, and repeats until a terminal
// condition: no next control, an advance that did not change the page, or a
// page contributing zero new links. Each advance either changes the page or
// forces termination, so the loop cannot run forever.
func (w *Walker) Walk() ([]string, error) {
	seen := utils.NewOrderedSet()

	for page := 1; ; page++ {
		links, err := w.pager.Links()
		if err != nil {
			return seen.Values(), err
		}

		added := 0
		for _, u := range links {
			if seen.Add(u) {
				added++
			}
		}
		w.logger.Infof("[walker] page %d: %d links (%d new, %d total)",
			page, len(links), added, seen.Size())

		// a page of only previously-seen links means the structure is
		// repeating rather than paginating
		if len(links) > 0 && added == 0 {
			w.logger.Info("[walker] no new links on page, stopping")
			return seen.Values(), nil
		}

		advanced, err := w.pager.Advance()
		if err != nil {
			return seen.Values(), err
		}
		if !advanced {
			w.logger.Info("[walker] last page reached")
			// one final read of the current page before stopping
			final, err := w.pager.Links()
			if err != nil {
				return seen.Values(), err
			}
			for _, u := range final {
				seen.Add(u)
			}
			return seen.Values(), nil
		}
	}
}

// browserPager drives the live results pages through the session's tab.
type browserPager struct {
	sess   *Session
	cfg    *config.Config
	logger *logrus.Logger
	shape  PageShape
}

func newBrowserPager(sess *Session, shape PageShape, cfg *config.Config, logger *logrus.Logger) *browserPager {
	return &browserPager{sess: sess, cfg: cfg, logger: logger, shape: shape}
}

// Links collects hrefs from both era variants of the result anchors.
func (p *browserPager) Links() ([]string, error) {
	ctx, cancel := context.WithTimeout(p.sess.Context(),
		time.Duration(p.cfg.PageTimeoutSec)*time.Second)
	defer cancel()

	var urls []string
	for _, sel := range []string{locResultLinks.Legacy, locResultLinks.Current} {
		var nodes []*cdp.Node
		err := chromedp.Run(ctx,
			chromedp.Nodes(sel, &nodes, chromedp.BySearch, chromedp.AtLeast(0)),
		)
		if err != nil {
			return urls, p.sess.classifyErr(err)
		}
		for _, n := range nodes {
			if href := n.AttributeValue("href"); href != "" {
				urls = append(urls, href)
			}
		}
	}
	return urls, nil
}

// Advance clicks the next-page control and verifies the page changed. Any
// failure to find or click the control is terminal, not retried; a transient
// render delay costs at most one truncated crawl, never a hang.
func (p *browserPager) Advance() (bool, error) {
	ctx, cancel := context.WithTimeout(p.sess.Context(),
		time.Duration(p.cfg.PageTimeoutSec)*time.Second)
	defer cancel()

	var before string
	if err := chromedp.Run(ctx, chromedp.Location(&before)); err != nil {
		return false, p.sess.classifyErr(err)
	}

	sel := locNextPage.For(p.shape)
	clickCtx, cancelClick := context.WithTimeout(p.sess.Context(), 5*time.Second)
	defer cancelClick()
	if err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.BySearch)); err != nil {
		if lost := p.sess.classifyErr(err); lost == ErrSessionLost {
			return false, lost
		}
		return false, nil // no next control: terminal
	}

	utils.RandomDelay(p.cfg.MinPageDelaySec, p.cfg.MaxPageDelaySec)

	var after string
	if err := chromedp.Run(ctx, chromedp.Location(&after)); err != nil {
		return false, p.sess.classifyErr(err)
	}
	if after == before {
		return false, nil // click was a no-op: terminal
	}

	p.logger.Debugf("[walker] advanced to %s", after)
	return true, nil
}
