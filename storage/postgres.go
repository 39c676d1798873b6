package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

const (
	insertBatchSize = 50
	insertColumns   = 9
)

// PostgresStore persists cleaned listings to PostgreSQL and serves them back
// to the stored-listing analyzer.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection to PostgreSQL, waits for it to accept
// pings, runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, maxRetries int, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: maxRetries, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db, logger: logger}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id          BIGSERIAL PRIMARY KEY,
			product     VARCHAR(32)  NOT NULL,
			model       TEXT         NOT NULL,
			price       BIGINT       NOT NULL,
			province    TEXT         NOT NULL DEFAULT '',
			city        TEXT         NOT NULL DEFAULT '',
			district    TEXT         NOT NULL DEFAULT '',
			source      TEXT         NOT NULL DEFAULT '',
			source_url  TEXT         UNIQUE NOT NULL,
			posted_at   TIMESTAMPTZ  NOT NULL,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_product_model ON listings(product, model);
		CREATE INDEX IF NOT EXISTS idx_listings_region        ON listings(province, city, district);
		CREATE INDEX IF NOT EXISTS idx_listings_posted_at     ON listings(posted_at);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (ps *PostgresStore) Clear(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts listings. Rows whose source_url already exists are
// skipped, so re-importing the same file is harmless.
func (ps *PostgresStore) Write(ctx context.Context, listings []*models.Listing) (int, error) {
	inserted := 0
	for i := 0; i < len(listings); i += insertBatchSize {
		end := min(i+insertBatchSize, len(listings))
		query, args := buildInsertBatch(listings[i:end])
		res, err := ps.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	ps.logger.Debug("[postgres] Inserted %d of %d listings", inserted, len(listings))
	return inserted, nil
}

func buildInsertBatch(batch []*models.Listing) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Product, l.Model, l.Price, l.Province, l.City, l.District, l.Source, l.SourceURL, l.PostedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (product, model, price, province, city, district, source, source_url, posted_at)
		VALUES %s
		ON CONFLICT (source_url) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// FetchMatching returns listings for the filter, cheapest first.
func (ps *PostgresStore) FetchMatching(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	query, args := buildMatchQuery(filter)
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch matching: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.ID, &l.Product, &l.Model, &l.Price, &l.Province, &l.City,
			&l.District, &l.Source, &l.SourceURL, &l.PostedAt, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func buildMatchQuery(f models.ListingFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("product", f.Product)
	add("model", f.Model)
	add("province", f.Province)
	add("city", f.City)
	add("district", f.District)

	query := `SELECT id, product, model, price, province, city, district, source, source_url, posted_at, created_at
		FROM listings`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY price, id"
	return query, args
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
