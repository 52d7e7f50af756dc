package models

// InsightReport holds summary statistics computed over a normalized batch,
// printed at the end of a run as a sanity check on the scraped data.
type InsightReport struct {
	TotalListings  int
	AveragePrice   float64
	MinPrice       int
	MaxPrice       int
	MedianSqFt     int
	ListingsByCity map[string]int
	UnitTypeCounts map[string]int
	PetFriendly    int
	WithLaundry    int
	MostExpensive  *NormalizedListing
}
