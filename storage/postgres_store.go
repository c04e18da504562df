package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"estate-mail-scraper/models"
)

// PostgresStore persists the listing set to PostgreSQL. Save follows the
// same full-replace contract as the JSON store: clear, then batch insert.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection, waits for the database to come up,
// runs schema migrations and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
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

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id             SERIAL PRIMARY KEY,
			source         VARCHAR(50)   NOT NULL,
			name           TEXT          NOT NULL,
			link           TEXT          UNIQUE NOT NULL,
			area           NUMERIC(8,2)  NOT NULL,
			price          NUMERIC(12,2) NOT NULL,
			price_per_area NUMERIC(10,2) NOT NULL,
			location       TEXT          NOT NULL DEFAULT '',
			received_at    TIMESTAMPTZ   NOT NULL,
			extracted_at   TIMESTAMPTZ   NOT NULL,
			score          NUMERIC(6,4)  NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_listings_score          ON listings(score);
		CREATE INDEX IF NOT EXISTS idx_listings_source         ON listings(source);
		CREATE INDEX IF NOT EXISTS idx_listings_price_per_area ON listings(price_per_area);
	`)
	return err
}

// Load retrieves the stored set, best score first.
func (ps *PostgresStore) Load() ([]*models.Listing, error) {
	rows, err := ps.db.Query(`
		SELECT source, name, link, area, price, price_per_area,
		       location, received_at, extracted_at, score
		FROM listings
		ORDER BY score DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.Source, &l.Name, &l.Link, &l.Area, &l.Price, &l.PricePerArea,
			&l.Location, &l.ReceivedAt, &l.ExtractedAt, &l.Score,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Save replaces the stored set inside one transaction, so a failed write
// leaves the previous set untouched.
func (ps *PostgresStore) Save(listings []*models.Listing) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM listings"); err != nil {
		tx.Rollback()
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := insertBatch(tx, listings[i:end]); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(tx *sql.Tx, batch []*models.Listing) error {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Source, l.Name, l.Link, l.Area, l.Price, l.PricePerArea,
			l.Location, l.ReceivedAt, l.ExtractedAt, l.Score)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (source, name, link, area, price, price_per_area,
		                      location, received_at, extracted_at, score)
		VALUES %s
		ON CONFLICT (link) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := tx.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
