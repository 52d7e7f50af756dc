package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"craigslist-scraper/models"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func rawRecord(id, price string) *models.RawListing {
	return &models.RawListing{
		ListingURL:  "https://sfbay.craigslist.org/sfc/apa/d/unit/" + id + ".html",
		ID:          "post id: " + id,
		City:        "(san francisco)",
		Price:       price,
		Bedrooms:    "2BR / 1Ba",
		Bathrooms:   "2BR / 1Ba",
		SqFt:        "850ft2",
		Description: "sunny unit with full kitchen",
		AttrVars:    "apartment\nlaundry on site\ncats are OK",
		DatePosted:  "2026-08-20T10:30:00-0700",
		DateCrawled: time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
	}
}

func TestNormalizerParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"$2,500", 2500, true},
		{"$800", 800, true},
		{"$1,234,567", 1234567, true},
		{"$0", 0, false},
		{"-50", 0, false},
		{models.Missing, 0, false},
		{"call for price", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parsePrice(%q) = (%d, %v); want (%d, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizerParseBedrooms(t *testing.T) {
	tests := []struct {
		bubble  string
		descrip string
		want    *int
	}{
		{"3BR / 2Ba", "nice place", intPtr(3)},
		{"1BR / 1Ba", "nice place", intPtr(1)},
		{"8+BR / 4Ba", "huge place", nil},
		{models.Missing, "cozy studio downtown", intPtr(0)},
		{models.Missing, "Studio with a view", intPtr(0)},
		{models.Missing, models.Missing, nil},
		{models.Missing, "two bedroom flat", nil},
	}

	for _, tt := range tests {
		got := parseBedrooms(tt.bubble, tt.descrip)
		if !intPtrEq(got, tt.want) {
			t.Errorf("parseBedrooms(%q, %q) = %v; want %v",
				tt.bubble, tt.descrip, fmtIntPtr(got), fmtIntPtr(tt.want))
		}
	}
}

func TestNormalizerParseBathrooms(t *testing.T) {
	tests := []struct {
		bubble string
		want   *float64
	}{
		{"3BR / 2Ba", floatPtr(2)},
		{"2BR / 1.5Ba", floatPtr(1.5)},
		{"1BR / shared", floatPtr(1)},
		{"1BR / split", floatPtr(1)},
		{"4BR / 9+Ba", nil},
		{models.Missing, nil},
		{"no bath info", nil},
	}

	for _, tt := range tests {
		got := parseBathrooms(tt.bubble)
		if !floatPtrEq(got, tt.want) {
			t.Errorf("parseBathrooms(%q) = %v; want %v",
				tt.bubble, fmtFloatPtr(got), fmtFloatPtr(tt.want))
		}
	}
}

func TestNormalizerParseSquareFeet(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{"850ft2", intPtr(850)},
		{"2BR / 1Ba 1,100ft2", intPtr(1100)},
		{models.Missing, nil},
		{"2BR / 1Ba", nil},
		{"spacious", nil},
	}

	for _, tt := range tests {
		got := parseSquareFeet(tt.raw)
		if !intPtrEq(got, tt.want) {
			t.Errorf("parseSquareFeet(%q) = %v; want %v",
				tt.raw, fmtIntPtr(got), fmtIntPtr(tt.want))
		}
	}
}

func TestNormalizerCleanCity(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"(san francisco)", "San Francisco"},
		{"(SOMA / south beach)", "Soma / South Beach"},
		{"oakland", "Oakland"},
		{models.Missing, ""},
	}

	for _, tt := range tests {
		if got := cleanCity(tt.raw); got != tt.want {
			t.Errorf("cleanCity(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizerDropsUnusableRecords(t *testing.T) {
	n := NewNormalizer(newTestLogger(), "sfbay", "sfc")

	noID := rawRecord("", "$2,000")
	noID.ID = models.Missing
	zeroPrice := rawRecord("7001", "$0")
	missingPrice := rawRecord("7002", models.Missing)
	good := rawRecord("7003", "$1,900")

	cleaned := n.Normalize([]*models.RawListing{noID, zeroPrice, missingPrice, good})
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing to survive, got %d", len(cleaned))
	}
	if cleaned[0].ListingID != 7003 {
		t.Errorf("surviving listing id = %d; want 7003", cleaned[0].ListingID)
	}
	if cleaned[0].Price != 1900 {
		t.Errorf("surviving listing price = %d; want 1900", cleaned[0].Price)
	}
}

func TestNormalizerDeduplicatesKeepingLast(t *testing.T) {
	n := NewNormalizer(newTestLogger(), "sfbay", "sfc")

	first := rawRecord("5555", "$2,000")
	other := rawRecord("6666", "$2,200")
	second := rawRecord("5555", "$2,100")

	cleaned := n.Normalize([]*models.RawListing{first, other, second})
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 listings after dedup, got %d", len(cleaned))
	}
	// the duplicate keeps its original position but the last-seen values
	if cleaned[0].ListingID != 5555 || cleaned[0].Price != 2100 {
		t.Errorf("deduped listing = (%d, $%d); want (5555, $2100)",
			cleaned[0].ListingID, cleaned[0].Price)
	}
	if cleaned[1].ListingID != 6666 {
		t.Errorf("second listing id = %d; want 6666", cleaned[1].ListingID)
	}
}

func TestNormalizerExpandFlags(t *testing.T) {
	attrs := "townhouse\nlaundry on site\ncats are OK\nEV charging"
	descrip := "remodeled with a full kitchen and new dishwasher"

	flags := expandFlags(attrs, descrip)

	checks := map[string]bool{
		"cats_ok":         true,
		"dogs_ok":         false,
		"laundry_on_site": true,
		"no_laundry":      false,
		"townhouse":       true,
		"single_fam":      false, // "townhouse" contains "house"
		"ev_charging":     true,
		"kitchen":         true,
		"full_kitchen":    true,
		"dishwasher":      true,
		"refrigerator":    false,
	}
	for name, want := range checks {
		if flags[name] != want {
			t.Errorf("flag %q = %v; want %v", name, flags[name], want)
		}
	}
}

func TestNormalizerExpandFlagsExcludeMarkers(t *testing.T) {
	flags := expandFlags("house\nno laundry on site", "No Kitchen, hotplate only")

	if !flags["single_fam"] {
		t.Error("expected single_fam for a plain house listing")
	}
	if flags["laundry_on_site"] {
		t.Error("laundry_on_site must not match the negated marker")
	}
	if !flags["no_laundry"] {
		t.Error("expected no_laundry to match its marker")
	}
	if flags["kitchen"] {
		t.Error("kitchen must not match a case-folded \"no kitchen\"")
	}
}

func TestNormalizerMissingMarkersYieldFalseFlags(t *testing.T) {
	flags := expandFlags(models.Missing, models.Missing)

	if len(flags) != len(models.Indicators) {
		t.Fatalf("expected %d flags, got %d", len(models.Indicators), len(flags))
	}
	for name, v := range flags {
		if v {
			t.Errorf("flag %q = true for an all-missing record", name)
		}
	}
}

func TestNormalizerParseDatePosted(t *testing.T) {
	got := parseDatePosted("2026-08-20T10:30:00-0700")
	if got.IsZero() {
		t.Fatal("expected a parsed timestamp, got zero")
	}
	if got.Day() != 20 || got.Month() != time.August {
		t.Errorf("parsed wrong date: %v", got)
	}

	if !parseDatePosted(models.Missing).IsZero() {
		t.Error("missing marker must parse to the zero time")
	}
	if !parseDatePosted("not a date").IsZero() {
		t.Error("garbage must parse to the zero time")
	}
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func intPtrEq(a, b *int) bool       { return (a == nil) == (b == nil) && (a == nil || *a == *b) }
func floatPtrEq(a, b *float64) bool { return (a == nil) == (b == nil) && (a == nil || *a == *b) }

func fmtIntPtr(p *int) interface{} {
	if p == nil {
		return "nil"
	}
	return *p
}

func fmtFloatPtr(p *float64) interface{} {
	if p == nil {
		return "nil"
	}
	return *p
}
