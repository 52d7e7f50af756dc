package craigslist

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakePager replays a fixed sequence of result pages.
type fakePager struct {
	pages [][]string
	pos   int
}

func (p *fakePager) Links() ([]string, error) {
	if p.pos >= len(p.pages) {
		return nil, nil
	}
	return p.pages[p.pos], nil
}

func (p *fakePager) Advance() (bool, error) {
	if p.pos >= len(p.pages)-1 {
		return false, nil
	}
	p.pos++
	return true, nil
}

func pageOfLinks(start, count int) []string {
	links := make([]string, count)
	for i := 0; i < count; i++ {
		links[i] = fmt.Sprintf("https://sfbay.craigslist.org/sfc/apa/d/unit/%d.html", start+i)
	}
	return links
}

func walkerTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func TestWalkerCollectsAcrossPages(t *testing.T) {
	p := &fakePager{pages: [][]string{
		pageOfLinks(0, 20),
		pageOfLinks(20, 5),
	}}

	urls, err := NewWalker(p, walkerTestLogger()).Walk()
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(urls) != 25 {
		t.Fatalf("expected 25 urls, got %d", len(urls))
	}
	for i, u := range urls {
		want := fmt.Sprintf("https://sfbay.craigslist.org/sfc/apa/d/unit/%d.html", i)
		if u != want {
			t.Fatalf("urls[%d] = %q; want %q", i, u, want)
		}
	}
}

func TestWalkerStopsOnRepeatedPage(t *testing.T) {
	// a broken next control that lands back on the same page must terminate
	// after the first repeat, not loop
	same := pageOfLinks(0, 20)
	p := &fakePager{pages: [][]string{same, same, same}}

	urls, err := NewWalker(p, walkerTestLogger()).Walk()
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(urls) != 20 {
		t.Errorf("expected 20 urls, got %d", len(urls))
	}
}

func TestWalkerDeduplicatesOverlap(t *testing.T) {
	// pages sharing a few links (listings shifting between pages mid-crawl)
	// must not produce duplicates
	p := &fakePager{pages: [][]string{
		pageOfLinks(0, 20),
		pageOfLinks(15, 20),
	}}

	urls, err := NewWalker(p, walkerTestLogger()).Walk()
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(urls) != 35 {
		t.Fatalf("expected 35 unique urls, got %d", len(urls))
	}
	seen := make(map[string]bool)
	for _, u := range urls {
		if seen[u] {
			t.Fatalf("duplicate url in result: %s", u)
		}
		seen[u] = true
	}
}

func TestWalkerSinglePage(t *testing.T) {
	p := &fakePager{pages: [][]string{pageOfLinks(0, 7)}}

	urls, err := NewWalker(p, walkerTestLogger()).Walk()
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(urls) != 7 {
		t.Errorf("expected 7 urls, got %d", len(urls))
	}
}

func TestWalkerEmptyResults(t *testing.T) {
	p := &fakePager{pages: [][]string{{}}}

	urls, err := NewWalker(p, walkerTestLogger()).Walk()
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("expected no urls, got %d", len(urls))
	}
}
