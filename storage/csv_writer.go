package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"craigslist-scraper/models"
)

// csvHeader is the snapshot's contract: column names and order are fixed. No
// row index column is written.
var csvHeader = []string{
	"listing_urls", "ids", "sqft", "cities", "prices", "bedrooms", "bathrooms",
	"attr_vars", "listing_descrip", "date_of_webcrawler", "kitchen", "date_posted",
	"region", "sub_region",
}

// CSVWriter writes one raw-batch snapshot per crawl, filed under
// {outDir}/{region}/{subregion}/craigslist_rental_{region}_{subregion}_{MM_DD_YYYY}.csv.
type CSVWriter struct {
	file      *os.File
	writer    *csv.Writer
	path      string
	region    string
	subregion string
}

// NewCSVWriter creates the batch file and writes the header row. Intermediate
// directories are created automatically.
func NewCSVWriter(outDir, region, subregion string) (*CSVWriter, error) {
	dir := filepath.Join(outDir, region, subregion)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	name := fmt.Sprintf("craigslist_rental_%s_%s_%s.csv",
		region, subregion, time.Now().Format("01_02_2006"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, path: path, region: region, subregion: subregion}, nil
}

// Path returns the location of the batch file.
func (c *CSVWriter) Path() string {
	return c.path
}

// WriteRaw appends one row per scraped record. Fields are written exactly as
// scraped, sentinel included; only the kitchen column is derived, since the
// snapshot carries it alongside the raw text.
func (c *CSVWriter) WriteRaw(records []*models.RawListing) error {
	for _, r := range records {
		kitchen := "0"
		if r.Description != models.Missing && models.Kitchen.Matches(r.Description) {
			kitchen = "1"
		}
		row := []string{
			r.ListingURL,
			r.ID,
			r.SqFt,
			r.City,
			r.Price,
			r.Bedrooms,
			r.Bathrooms,
			r.AttrVars,
			r.Description,
			r.DateCrawled.Format("2006-01-02"),
			kitchen,
			r.DatePosted,
			c.region,
			c.subregion,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
