package models

import "time"

// Missing is the sentinel recorded when a listing page lacks the element
// backing a field. It is distinct from the empty string so that downstream
// consumers can tell "not present on the page" apart from "present but blank".
const Missing = "nan"

// RawListing holds the unprocessed text scraped from one rental detail page.
// Every field except ListingURL may hold the Missing sentinel.
type RawListing struct {
	ListingURL  string
	ID          string
	City        string
	Price       string
	Bedrooms    string
	Bathrooms   string
	SqFt        string
	Description string
	AttrVars    string
	DatePosted  string
	DateCrawled time.Time
}

// NewMissingRecord returns a record for a listing page that could not be
// visited (expired or removed posting). Only the source URL and crawl date
// are kept; everything else is the Missing sentinel.
func NewMissingRecord(url string, crawled time.Time) *RawListing {
	return &RawListing{
		ListingURL:  url,
		ID:          Missing,
		City:        Missing,
		Price:       Missing,
		Bedrooms:    Missing,
		Bathrooms:   Missing,
		SqFt:        Missing,
		Description: Missing,
		AttrVars:    Missing,
		DatePosted:  Missing,
		DateCrawled: crawled,
	}
}

// NormalizedListing is a RawListing after type coercion and indicator
// expansion, ready for the rental table. Nil pointer fields map to SQL NULL.
type NormalizedListing struct {
	ListingID   int64
	Region      string
	Subregion   string
	City        string
	Price       int
	Bedrooms    *int
	Bathrooms   *float64
	SquareFeet  *int
	AttrVars    string
	Description string
	ListingURL  string
	DatePosted  time.Time // zero when the posting date was missing
	DateCrawled time.Time

	// Flags holds one entry per Indicators table row, keyed by column name.
	// Every key is always present; absent markers yield false.
	Flags map[string]bool
}
