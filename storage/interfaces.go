package storage

import (
	"time"

	"craigslist-scraper/models"
)

// RawSnapshotWriter persists the unprocessed batch exactly as scraped.
type RawSnapshotWriter interface {
	WriteRaw(records []*models.RawListing) error
	Close() error
}

// ListingSink is the incremental destination for normalized listings.
type ListingSink interface {
	LastSeen(region string) (time.Time, error)
	Insert(records []*models.NormalizedListing, lastSeen time.Time) (int, error)
	Close() error
}
