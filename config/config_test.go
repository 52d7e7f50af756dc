package config

import (
	"strings"
	"testing"
)

func TestSearchURL(t *testing.T) {
	cfg := &Config{
		Region:          "sfbay",
		Subregion:       "sfc",
		HousingCategory: "apa",
		MinPrice:        1,
		MaxPrice:        9000,
		RentPeriod:      3,
		SaleDate:        "all+dates",
	}

	want := "https://sfbay.craigslist.org/search/sfc/apa?min_price=1&max_price=9000&availabilityMode=0&rent_period=3&sale_date=all+dates"
	if got := cfg.SearchURL(); got != want {
		t.Errorf("SearchURL() = %q; want %q", got, want)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db.internal",
		PostgresPort:     "5433",
		PostgresUser:     "scraper",
		PostgresPassword: "secret",
		PostgresDB:       "rental_db",
		PostgresSSLMode:  "require",
	}

	dsn := cfg.DSN()
	for _, part := range []string{
		"host=db.internal", "port=5433", "user=scraper",
		"password=secret", "dbname=rental_db", "sslmode=require",
	} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN() = %q; missing %q", dsn, part)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Region == "" || cfg.Subregion == "" || cfg.HousingCategory == "" {
		t.Error("search defaults must not be empty")
	}
	if cfg.PageTimeoutSec <= 0 || cfg.FieldTimeoutSec <= 0 {
		t.Error("timeout defaults must be positive")
	}
	if cfg.MinPageDelaySec > cfg.MaxPageDelaySec {
		t.Errorf("page delay bounds inverted: %d > %d", cfg.MinPageDelaySec, cfg.MaxPageDelaySec)
	}
}
