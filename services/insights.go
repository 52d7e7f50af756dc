package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"craigslist-scraper/models"
)

// unitTypeFlags are the mutually interesting unit-type indicators reported on.
var unitTypeFlags = []string{"apt", "condo", "townhouse", "single_fam", "duplex", "in_law_apt", "flat"}

type InsightService struct {
	logger *logrus.Logger
}

func NewInsightService(logger *logrus.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes summary statistics over the normalized batch.
func (s *InsightService) Generate(listings []*models.NormalizedListing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByCity: make(map[string]int),
		UnitTypeCounts: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.MinPrice = listings[0].Price
	report.MaxPrice = listings[0].Price
	report.MostExpensive = listings[0]

	var priceTotal int
	var sqfts []int
	for _, l := range listings {
		priceTotal += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
			report.MostExpensive = l
		}
		if l.SquareFeet != nil {
			sqfts = append(sqfts, *l.SquareFeet)
		}
		if l.City != "" {
			report.ListingsByCity[l.City]++
		}
		for _, ut := range unitTypeFlags {
			if l.Flags[ut] {
				report.UnitTypeCounts[ut]++
			}
		}
		if l.Flags["cats_ok"] || l.Flags["dogs_ok"] {
			report.PetFriendly++
		}
		if l.Flags["washer_and_dryer"] || l.Flags["laundry_in_bldg"] || l.Flags["laundry_on_site"] {
			report.WithLaundry++
		}
	}

	report.AveragePrice = float64(priceTotal) / float64(len(listings))

	if len(sqfts) > 0 {
		sort.Ints(sqfts)
		report.MedianSqFt = sqfts[len(sqfts)/2]
	}

	return report
}

// Print writes the report to stdout.
func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n%s\n", sep)
	fmt.Printf("  RENTAL CRAWL SUMMARY\n")
	fmt.Printf("%s\n\n", sep)

	fmt.Printf("  Overview\n  %s\n", thin)
	fmt.Printf("  Listings in batch : %d\n", r.TotalListings)
	fmt.Printf("  Pet friendly      : %d\n", r.PetFriendly)
	fmt.Printf("  Laundry available : %d\n\n", r.WithLaundry)

	fmt.Printf("  Price Statistics (monthly)\n  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Printf("  Average price : $%.0f\n", r.AveragePrice)
		fmt.Printf("  Minimum price : $%d\n", r.MinPrice)
		fmt.Printf("  Maximum price : $%d\n", r.MaxPrice)
		if r.MedianSqFt > 0 {
			fmt.Printf("  Median sqft   : %d\n", r.MedianSqFt)
		}
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("  Most Expensive Listing\n  %s\n", thin)
		fmt.Printf("  %s — $%d\n", r.MostExpensive.City, r.MostExpensive.Price)
		fmt.Printf("  %s\n\n", r.MostExpensive.ListingURL)
	}

	if len(r.UnitTypeCounts) > 0 {
		fmt.Printf("  Unit Types\n  %s\n", thin)
		for _, ut := range unitTypeFlags {
			if n := r.UnitTypeCounts[ut]; n > 0 {
				fmt.Printf("  %-22s %d\n", ut, n)
			}
		}
		fmt.Println()
	}

	if len(r.ListingsByCity) > 0 {
		type cityCount struct {
			city  string
			count int
		}
		counts := make([]cityCount, 0, len(r.ListingsByCity))
		for c, n := range r.ListingsByCity {
			counts = append(counts, cityCount{c, n})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].city < counts[j].city
		})
		if len(counts) > 10 {
			counts = counts[:10]
		}

		fmt.Printf("  Listings by City (top %d)\n  %s\n", len(counts), thin)
		for _, cc := range counts {
			fmt.Printf("  %-30s %d\n", cc.city, cc.count)
		}
		fmt.Println()
	}
}
