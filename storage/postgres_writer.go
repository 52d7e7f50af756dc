package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"craigslist-scraper/models"
)

// baseColumns are the typed listing fields; the indicator columns are
// appended from the models.Indicators table so schema, insert statement and
// normalizer can never drift apart.
var baseColumns = []string{
	"listing_id", "region", "sub_region", "city", "price",
	"bedrooms", "bathrooms", "sqft", "attr_vars", "listing_descrip",
	"listing_url", "date_of_webcrawler", "date_posted",
}

func rentalColumns() []string {
	cols := make([]string, 0, len(baseColumns)+len(models.Indicators))
	cols = append(cols, baseColumns...)
	for _, ind := range models.Indicators {
		cols = append(cols, ind.Name)
	}
	return cols
}

// PostgresWriter persists normalized listings into the wide rental table.
// Inserts are incremental and idempotent: records at or before the region's
// last-seen posting date are filtered out, and the primary key absorbs any
// id that slips through.
type PostgresWriter struct {
	db     *sqlx.DB
	logger *logrus.Logger
	insert string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use writer.
func NewPostgresWriter(dsn string, logger *logrus.Logger) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	cols := rentalColumns()
	pw := &PostgresWriter{
		db:     db,
		logger: logger,
		insert: fmt.Sprintf(
			"INSERT INTO rental (%s) VALUES (:%s) ON CONFLICT (listing_id) DO NOTHING",
			strings.Join(cols, ", "), strings.Join(cols, ", :")),
	}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	var flags strings.Builder
	for _, ind := range models.Indicators {
		fmt.Fprintf(&flags, ",\n\t\t\t%s SMALLINT NOT NULL DEFAULT 0", ind.Name)
	}

	_, err := pw.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS rental (
			listing_id         BIGINT PRIMARY KEY,
			region             VARCHAR(30) NOT NULL,
			sub_region         VARCHAR(30) NOT NULL DEFAULT '',
			city               VARCHAR(60) NOT NULL DEFAULT '',
			price              INT NOT NULL,
			bedrooms           INT,
			bathrooms          NUMERIC(4,1),
			sqft               INT,
			attr_vars          TEXT NOT NULL DEFAULT '',
			listing_descrip    TEXT NOT NULL DEFAULT '',
			listing_url        TEXT NOT NULL DEFAULT '',
			date_of_webcrawler DATE,
			date_posted        TIMESTAMPTZ%s
		);

		CREATE INDEX IF NOT EXISTS idx_rental_region_posted ON rental(region, date_posted);
		CREATE INDEX IF NOT EXISTS idx_rental_price         ON rental(price);
		CREATE INDEX IF NOT EXISTS idx_rental_city          ON rental(city);
	`, flags.String()))
	return err
}

// LastSeen returns the maximum date_posted already stored for the region.
// A zero time means the destination holds no data for the region yet, in
// which case no incremental filter applies.
func (pw *PostgresWriter) LastSeen(region string) (time.Time, error) {
	var last sql.NullTime
	err := pw.db.Get(&last, "SELECT MAX(date_posted) FROM rental WHERE region = $1", region)
	if err != nil {
		return time.Time{}, fmt.Errorf("postgres: last seen for %q: %w", region, err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time, nil
}

// FilterNewer keeps records posted strictly after the last-seen marker. With
// a zero marker (first run for the region) everything passes.
func FilterNewer(records []*models.NormalizedListing, lastSeen time.Time) []*models.NormalizedListing {
	if lastSeen.IsZero() {
		return records
	}
	fresh := make([]*models.NormalizedListing, 0, len(records))
	for _, r := range records {
		if r.DatePosted.After(lastSeen) {
			fresh = append(fresh, r)
		}
	}
	return fresh
}

// Insert writes the batch record by record and returns the number of rows
// actually inserted. A constraint violation or malformed value skips that
// record with a logged cause; only a broken connection aborts the sequence.
func (pw *PostgresWriter) Insert(records []*models.NormalizedListing, lastSeen time.Time) (int, error) {
	fresh := FilterNewer(records, lastSeen)
	if len(fresh) < len(records) {
		pw.logger.Infof("[postgres] incremental filter: %d of %d records newer than %s",
			len(fresh), len(records), lastSeen.Format("2006-01-02 15:04"))
	}

	inserted := 0
	for _, rec := range fresh {
		res, err := pw.db.NamedExec(pw.insert, namedArgs(rec))
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				// the server processed and rejected this record; skip it
				pw.logger.Warnf("[postgres] skipping listing %d: %s (%s)",
					rec.ListingID, pqErr.Message, pqErr.Code)
				continue
			}
			// driver or transport failure: fatal for the run
			return inserted, fmt.Errorf("postgres: insert listing %d: %w", rec.ListingID, err)
		}

		rows, _ := res.RowsAffected()
		if rows == 0 {
			pw.logger.Debugf("[postgres] listing %d already stored — skipped", rec.ListingID)
			continue
		}
		inserted += int(rows)
	}

	pw.logger.Infof("[postgres] inserted %d new rows (%d duplicates/skips)",
		inserted, len(fresh)-inserted)
	return inserted, nil
}

// namedArgs maps a record onto the insert statement's named parameters. Nil
// pointers and the zero posting date become SQL NULL.
func namedArgs(rec *models.NormalizedListing) map[string]interface{} {
	args := map[string]interface{}{
		"listing_id":         rec.ListingID,
		"region":             rec.Region,
		"sub_region":         rec.Subregion,
		"city":               rec.City,
		"price":              rec.Price,
		"bedrooms":           rec.Bedrooms,
		"bathrooms":          rec.Bathrooms,
		"sqft":               rec.SquareFeet,
		"attr_vars":          rec.AttrVars,
		"listing_descrip":    rec.Description,
		"listing_url":        rec.ListingURL,
		"date_of_webcrawler": rec.DateCrawled,
	}
	if rec.DatePosted.IsZero() {
		args["date_posted"] = nil
	} else {
		args["date_posted"] = rec.DatePosted
	}
	for _, ind := range models.Indicators {
		if rec.Flags[ind.Name] {
			args[ind.Name] = 1
		} else {
			args[ind.Name] = 0
		}
	}
	return args
}

// FetchRegion retrieves stored listing ids and posting dates for a region,
// useful when auditing what a previous batch left behind.
func (pw *PostgresWriter) FetchRegion(region string) ([]StoredListing, error) {
	var rows []StoredListing
	err := pw.db.Select(&rows, `
		SELECT listing_id, city, price, date_posted
		FROM rental
		WHERE region = $1
		ORDER BY date_posted DESC NULLS LAST`, region)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch region %q: %w", region, err)
	}
	return rows, nil
}

// StoredListing is the slim row shape returned by FetchRegion.
type StoredListing struct {
	ListingID  int64        `db:"listing_id"`
	City       string       `db:"city"`
	Price      int          `db:"price"`
	DatePosted sql.NullTime `db:"date_posted"`
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
