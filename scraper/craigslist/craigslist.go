package craigslist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"craigslist-scraper/config"
	"craigslist-scraper/models"
	"craigslist-scraper/utils"
)

// Scraper drives one crawl batch: walk the result pages for detail URLs, then
// visit and parse each listing. Listing-level failures degrade to all-missing
// records; session-level failures stop the batch with whatever was collected.
type Scraper struct {
	cfg       *config.Config
	logger    *logrus.Logger
	sess      *Session
	extractor *Extractor
	retry     *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *logrus.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape runs the full crawl for the configured region and subregion. On
// ErrSessionLost the returned slice still holds every record accumulated
// before the session died.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawListing, error) {
	searchURL := s.cfg.SearchURL()
	s.logger.Infof("[craigslist] starting crawl: %s", searchURL)

	s.sess = NewSession(ctx, s.cfg.ChromeBin, s.cfg.Headless)
	defer s.sess.Close()

	s.extractor = NewExtractor(s.sess,
		time.Duration(s.cfg.FieldTimeoutSec)*time.Second, s.logger)

	if err := s.openSearchPage(searchURL); err != nil {
		return nil, err
	}

	shape := s.detectShape()
	s.logger.Infof("[craigslist] results page shape: %s", shape)

	walker := NewWalker(newBrowserPager(s.sess, shape, s.cfg, s.logger), s.logger)
	urls, err := walker.Walk()
	if err != nil {
		s.logger.Errorf("[craigslist] pagination stopped early: %v", err)
		if errors.Is(err, ErrSessionLost) {
			return nil, ErrSessionLost
		}
	}
	s.logger.Infof("[craigslist] collected %d unique listing URLs", len(urls))

	return s.visitListings(ctx, urls)
}

// openSearchPage navigates to the start URL and waits for the search form.
// The initial load is the one navigation worth retrying: nothing has been
// accumulated yet, and a cold CDN edge can be slow.
func (s *Scraper) openSearchPage(url string) error {
	return s.retry.Do("open-search-page", func() error {
		ctx, cancel := context.WithTimeout(s.sess.Context(),
			time.Duration(s.cfg.PageTimeoutSec)*time.Second)
		defer cancel()

		err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady(searchReadyMarker, chromedp.BySearch),
		)
		if err != nil {
			return fmt.Errorf("load search page: %w", s.sess.classifyErr(err))
		}
		return nil
	})
}

// visitListings parses each detail page in order. Per-listing failures never
// abort the batch; a lost session or user cancellation does, fail-fast.
func (s *Scraper) visitListings(ctx context.Context, urls []string) ([]*models.RawListing, error) {
	crawled := time.Now()
	records := make([]*models.RawListing, 0, len(urls))

	for i, url := range urls {
		if ctx.Err() != nil {
			s.logger.Warn("[craigslist] crawl cancelled — keeping records collected so far")
			return records, ErrSessionLost
		}

		if err := s.navigate(url); err != nil {
			if errors.Is(err, ErrSessionLost) {
				s.logger.Warnf("[craigslist] session lost at listing %d/%d", i+1, len(urls))
				return records, ErrSessionLost
			}
			// listing removed or expired: record the URL with every field missing
			s.logger.Warnf("[craigslist] listing unavailable: %s (%v)", url, err)
			records = append(records, models.NewMissingRecord(url, crawled))
			continue
		}

		records = append(records, s.parseListing(url, crawled))

		s.logger.Infof("[craigslist] listings done: %d | remaining: %d",
			i+1, len(urls)-i-1)

		if i < len(urls)-1 {
			utils.RandomDelay(s.cfg.MinVisitDelay, s.cfg.MaxVisitDelay)
		}
	}

	s.logger.Infof("[craigslist] crawl complete — %d records", len(records))
	return records, nil
}

func (s *Scraper) navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.sess.Context(),
		time.Duration(s.cfg.PageTimeoutSec)*time.Second)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return s.sess.classifyErr(err)
	}
	return nil
}
