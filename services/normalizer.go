package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"craigslist-scraper/models"
)

const (
	bedroomMarker  = "BR"
	bathroomMarker = "Ba"
	sqftMarker     = "ft"
	studioMarker   = "studio"
	idPrefix       = "post id: "
)

var nonDigitRegexp = regexp.MustCompile(`[^\d]`)

// Normalizer turns raw scraped records into typed listings. The
// transformation is pure and deterministic: the same batch always produces
// the same output.
type Normalizer struct {
	logger    *logrus.Logger
	region    string
	subregion string
}

// NewNormalizer creates a Normalizer stamping records with the batch's region.
func NewNormalizer(logger *logrus.Logger, region, subregion string) *Normalizer {
	return &Normalizer{logger: logger, region: region, subregion: subregion}
}

// Normalize applies the cleaning rules in order: price coercion first (an
// unusable price drops the record, since price is the analysis target), then
// bedrooms/bathrooms/sqft coercion, indicator expansion, and finally
// deduplication by listing id keeping the last-seen occurrence.
func (n *Normalizer) Normalize(raw []*models.RawListing) []*models.NormalizedListing {
	result := make([]*models.NormalizedListing, 0, len(raw))
	byID := make(map[int64]int)

	dropped := 0
	for _, r := range raw {
		id, ok := parseListingID(r.ID)
		if !ok {
			n.logger.Debugf("[normalizer] dropping record without listing id: %s", r.ListingURL)
			dropped++
			continue
		}

		price, ok := parsePrice(r.Price)
		if !ok {
			n.logger.Debugf("[normalizer] dropping listing %d: unusable price %q", id, r.Price)
			dropped++
			continue
		}

		listing := &models.NormalizedListing{
			ListingID:   id,
			Region:      n.region,
			Subregion:   n.subregion,
			City:        cleanCity(r.City),
			Price:       price,
			Bedrooms:    parseBedrooms(r.Bedrooms, r.Description),
			Bathrooms:   parseBathrooms(r.Bathrooms),
			SquareFeet:  parseSquareFeet(r.SqFt),
			AttrVars:    textOrEmpty(r.AttrVars),
			Description: textOrEmpty(r.Description),
			ListingURL:  r.ListingURL,
			DatePosted:  parseDatePosted(r.DatePosted),
			DateCrawled: r.DateCrawled,
			Flags:       expandFlags(r.AttrVars, r.Description),
		}

		// keep the chronologically last occurrence of a duplicated id
		if idx, dup := byID[id]; dup {
			result[idx] = listing
			continue
		}
		byID[id] = len(result)
		result = append(result, listing)
	}

	n.logger.Infof("[normalizer] %d raw, %d normalized (dropped %d, deduped %d)",
		len(raw), len(result), dropped, len(raw)-dropped-len(result))
	return result
}

// expandFlags evaluates the indicator table against the attribute blob and
// the description. Every indicator is present in the result; a missing
// marker yields false, never an absent key.
func expandFlags(attrs, descrip string) map[string]bool {
	flags := make(map[string]bool, len(models.Indicators))
	for _, ind := range models.Indicators {
		text := attrs
		if ind.Source == models.FromDescription {
			text = descrip
		}
		if text == models.Missing {
			flags[ind.Name] = false
			continue
		}
		flags[ind.Name] = ind.Matches(text)
	}
	return flags
}

// parseListingID strips the "post id: " prefix and coerces to an integer.
func parseListingID(raw string) (int64, bool) {
	if raw == models.Missing {
		return 0, false
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, idPrefix))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parsePrice strips the currency symbol and thousands separators and coerces
// to an integer. Non-positive and unparseable values report false.
func parsePrice(raw string) (int, bool) {
	if raw == models.Missing {
		return 0, false
	}
	cleaned := strings.ReplaceAll(raw, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	price, err := strconv.Atoi(cleaned)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// parseBedrooms reads the count out of the shared bubble text ("3BR / 2Ba").
// A studio with no bedroom marker coerces to 0; a trailing "+" is ambiguous
// and yields nil rather than a guessed number.
func parseBedrooms(bubble, descrip string) *int {
	if bubble != models.Missing && strings.Contains(bubble, bedroomMarker) {
		v := strings.TrimSpace(strings.SplitN(bubble, "/", 2)[0])
		v = strings.TrimSpace(strings.TrimSuffix(v, bedroomMarker))
		if strings.HasSuffix(v, "+") {
			return nil
		}
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	// no bedroom marker: a studio listing has zero bedrooms by definition
	if descrip != models.Missing &&
		strings.Contains(strings.ToLower(descrip), studioMarker) {
		zero := 0
		return &zero
	}
	return nil
}

// parseBathrooms reads the bathroom half of the bubble text. "shared" and
// "split" markers coerce to 1; "9+" style values yield nil.
func parseBathrooms(bubble string) *float64 {
	if bubble == models.Missing {
		return nil
	}
	lower := strings.ToLower(bubble)
	if strings.Contains(lower, "shared") || strings.Contains(lower, "split") {
		one := 1.0
		return &one
	}
	if !strings.Contains(bubble, bathroomMarker) {
		return nil
	}

	parts := strings.SplitN(bubble, "/", 2)
	v := parts[len(parts)-1]
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), bathroomMarker))
	if strings.HasSuffix(v, "+") {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return &f
	}
	return nil
}

// parseSquareFeet locates the unit marker and keeps the number immediately
// before it. Absence of the marker yields nil, not zero.
func parseSquareFeet(raw string) *int {
	if raw == models.Missing || !strings.Contains(raw, sqftMarker) {
		return nil
	}
	before := strings.SplitN(raw, sqftMarker, 2)[0]
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return nil
	}
	digits := nonDigitRegexp.ReplaceAllString(fields[len(fields)-1], "")
	if digits == "" {
		return nil
	}
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return &n
	}
	return nil
}

// cleanCity title-cases the name and strips the parentheses the site wraps
// the neighborhood annotation in.
func cleanCity(raw string) string {
	if raw == models.Missing {
		return ""
	}
	raw = strings.ReplaceAll(raw, "(", "")
	raw = strings.ReplaceAll(raw, ")", "")
	return titleCase(strings.TrimSpace(raw))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

var datePostedLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDatePosted parses the datetime attribute value; the site has shipped a
// few separator variants over the years. Zero time means missing.
func parseDatePosted(raw string) time.Time {
	if raw == models.Missing {
		return time.Time{}
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range datePostedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	// older pages separate date and time with a space instead of "T"
	if t, err := time.Parse("2006-01-02 15:04:05-0700", raw); err == nil {
		return t
	}
	return time.Time{}
}

func textOrEmpty(raw string) string {
	if raw == models.Missing {
		return ""
	}
	return raw
}
