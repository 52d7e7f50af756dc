package craigslist

import (
	"time"

	"craigslist-scraper/models"
)

// detectShape probes for the current-era layout marker once per page. A page
// matching neither era still parses; every field just comes back missing.
func (s *Scraper) detectShape() PageShape {
	if s.extractor.Present(shapeMarker, 3*time.Second) {
		return ShapeCurrent
	}
	return ShapeLegacy
}

// parseListing extracts the tracked fields from the detail page the session
// is currently on. Fields are independent reads: any subset may be missing
// and the record is returned regardless.
func (s *Scraper) parseListing(url string, crawled time.Time) *models.RawListing {
	shape := s.detectShape()
	s.logger.Debugf("[parser] %s page shape: %s", url, shape)

	rec := &models.RawListing{
		ListingURL:  url,
		DateCrawled: crawled,
	}

	rec.ID = s.field(shape, locListingID)
	rec.Price = s.field(shape, locPrice)
	rec.City = s.field(shape, locCity)

	// bedrooms and bathrooms come from the same shared-line bubble; the
	// normalizer splits the "3BR / 2Ba" text into the two columns
	bubble := s.field(shape, locBedBath)
	rec.Bedrooms = bubble
	rec.Bathrooms = bubble

	rec.SqFt = s.field(shape, locHousing)
	rec.Description = s.field(shape, locDescription)
	rec.AttrVars = s.field(shape, locAttrGroup)

	if v, ok := s.extractor.ExtractDatetimeAttr(shape, locDatePosted); ok {
		rec.DatePosted = v
	} else {
		rec.DatePosted = models.Missing
	}

	return rec
}

func (s *Scraper) field(shape PageShape, loc Locator) string {
	if v, ok := s.extractor.Extract(shape, loc); ok {
		return v
	}
	return models.Missing
}
