package craigslist

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Extractor reads single fields off the current page. Absence, timeout and
// stale-page conditions all collapse to a missing value here; only the
// orchestrator decides whether the session itself is gone.
type Extractor struct {
	sess    *Session
	timeout time.Duration
	logger  *logrus.Logger
}

// NewExtractor creates an Extractor with a bounded per-field wait.
func NewExtractor(sess *Session, timeout time.Duration, logger *logrus.Logger) *Extractor {
	return &Extractor{sess: sess, timeout: timeout, logger: logger}
}

// Extract waits up to the field timeout for the located element and returns
// its text. The second return is false when the field is missing; no error is
// ever surfaced past this boundary.
func (e *Extractor) Extract(shape PageShape, loc Locator) (string, bool) {
	ctx, cancel := context.WithTimeout(e.sess.Context(), e.timeout)
	defer cancel()

	var text string
	err := chromedp.Run(ctx,
		chromedp.Text(loc.For(shape), &text, chromedp.BySearch),
	)
	if err != nil {
		e.logger.Debugf("[extract] %s: %v", loc.For(shape), err)
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// ExtractDatetimeAttr clicks the located element and reads its datetime
// attribute. The posting-date element renders a relative description ("3 days
// ago") until clicked; the attribute carries the precise timestamp.
func (e *Extractor) ExtractDatetimeAttr(shape PageShape, loc Locator) (string, bool) {
	ctx, cancel := context.WithTimeout(e.sess.Context(), e.timeout)
	defer cancel()

	sel := loc.For(shape)
	var value string
	var ok bool
	err := chromedp.Run(ctx,
		chromedp.Click(sel, chromedp.BySearch),
		chromedp.AttributeValue(sel, "datetime", &value, &ok, chromedp.BySearch),
	)
	if err != nil || !ok {
		e.logger.Debugf("[extract] datetime attr %s missing", sel)
		return "", false
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Present probes for an element with a short wait, for page-shape detection.
func (e *Extractor) Present(xpath string, wait time.Duration) bool {
	ctx, cancel := context.WithTimeout(e.sess.Context(), wait)
	defer cancel()

	var found bool
	err := chromedp.Run(ctx,
		chromedp.Evaluate(
			`document.evaluate(`+jsString(xpath)+`, document, null, XPathResult.BOOLEAN_TYPE, null).booleanValue`,
			&found,
		),
	)
	return err == nil && found
}

// jsString quotes a Go string as a JS string literal.
func jsString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
