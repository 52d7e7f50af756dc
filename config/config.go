package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Search parameters for the rental listings query.
	Region          string `env:"CLIST_REGION" envDefault:"sfbay"`
	Subregion       string `env:"CLIST_SUBREGION" envDefault:"sfc"`
	HousingCategory string `env:"CLIST_CATEGORY" envDefault:"apa"`
	MinPrice        int    `env:"MIN_PRICE" envDefault:"1"`
	MaxPrice        int    `env:"MAX_PRICE" envDefault:"9000"`
	RentPeriod      int    `env:"RENT_PERIOD" envDefault:"3"`
	SaleDate        string `env:"SALE_DATE" envDefault:"all+dates"`

	// Browser and crawl pacing.
	FieldTimeoutSec int    `env:"FIELD_TIMEOUT_SEC" envDefault:"15"`
	PageTimeoutSec  int    `env:"PAGE_TIMEOUT_SEC" envDefault:"50"`
	MinPageDelaySec int    `env:"MIN_PAGE_DELAY_SEC" envDefault:"1"`
	MaxPageDelaySec int    `env:"MAX_PAGE_DELAY_SEC" envDefault:"5"`
	MinVisitDelay   int    `env:"MIN_VISIT_DELAY_SEC" envDefault:"2"`
	MaxVisitDelay   int    `env:"MAX_VISIT_DELAY_SEC" envDefault:"5"`
	MaxRetries      int    `env:"MAX_RETRIES" envDefault:"3"`
	ChromeBin       string `env:"CHROME_BIN"`
	Headless        bool   `env:"HEADLESS" envDefault:"true"`

	// Destination store.
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"scraper"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"scraper123"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"rental_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	CSVOutputDir string `env:"CSV_OUTPUT_DIR" envDefault:"./scraped_data"`
}

// Load reads the .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// SearchURL builds the parameterized results-page URL the crawl starts from.
func (c *Config) SearchURL() string {
	return fmt.Sprintf(
		"https://%s.craigslist.org/search/%s/%s?min_price=%d&max_price=%d&availabilityMode=0&rent_period=%d&sale_date=%s",
		c.Region, c.Subregion, c.HousingCategory,
		c.MinPrice, c.MaxPrice, c.RentPeriod, c.SaleDate,
	)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
