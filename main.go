package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"craigslist-scraper/config"
	"craigslist-scraper/scraper/craigslist"
	"craigslist-scraper/services"
	"craigslist-scraper/storage"
	"craigslist-scraper/utils"
)

func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Craigslist Rental Crawler starting ===")
	logger.Infof("Search target: region=%s subregion=%s category=%s price=$%d-$%d",
		cfg.Region, cfg.Subregion, cfg.HousingCategory, cfg.MinPrice, cfg.MaxPrice)

	// a SIGINT mid-crawl takes the session-lost path: partial results are
	// still normalized and persisted rather than discarded
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputDir, cfg.Region, cfg.Subregion)
	if err != nil {
		logger.Errorf("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Errorf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer pgWriter.Close()

	crawler := craigslist.New(cfg, logger)
	rawListings, err := crawler.Scrape(ctx)
	if err != nil {
		if errors.Is(err, craigslist.ErrSessionLost) {
			logger.Warnf("Session lost: persisting the %d records collected so far", len(rawListings))
		} else {
			logger.Errorf("Crawl failed: %v", err)
		}
	}

	if len(rawListings) == 0 {
		logger.Error("No listings were scraped. Exiting.")
		os.Exit(1)
	}

	logger.Infof("Scraped %d raw listings, writing snapshot...", len(rawListings))
	if err := csvWriter.WriteRaw(rawListings); err != nil {
		logger.Errorf("CSV write failed: %v", err)
	} else {
		logger.Infof("Raw snapshot saved to %s", csvWriter.Path())
	}

	normalizer := services.NewNormalizer(logger, cfg.Region, cfg.Subregion)
	cleanListings := normalizer.Normalize(rawListings)
	if len(cleanListings) == 0 {
		logger.Error("All listings were dropped during normalization. Exiting.")
		os.Exit(1)
	}

	lastSeen, err := pgWriter.LastSeen(cfg.Region)
	if err != nil {
		logger.Errorf("Failed to determine last-seen marker: %v", err)
		os.Exit(1)
	}
	if lastSeen.IsZero() {
		logger.Infof("No prior data for region %s: importing the full batch", cfg.Region)
	} else {
		logger.Infof("Last stored posting date for %s: %s",
			cfg.Region, lastSeen.Format("2006-01-02 15:04"))
	}

	inserted, err := pgWriter.Insert(cleanListings, lastSeen)
	if err != nil {
		logger.Errorf("PostgreSQL insert failed: %v", err)
		os.Exit(1)
	}

	if stored, err := pgWriter.FetchRegion(cfg.Region); err != nil {
		logger.Warnf("Post-insert audit failed: %v", err)
	} else {
		logger.Infof("Region %s now holds %d stored listings", cfg.Region, len(stored))
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(cleanListings)
	insightSvc.Print(report)

	logger.Infof("Done. %d raw / %d normalized / %d inserted | snapshot: %s",
		len(rawListings), len(cleanListings), inserted, csvWriter.Path())
}
