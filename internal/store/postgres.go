package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"estatepulse/internal/analysis"
	"estatepulse/internal/config"
)

// listingsQuery returns every listing row in insertion order so repeated
// loads yield identical slices.
const listingsQuery = `
SELECT city, district, neighbourhood, property_type, listing_type,
       size_m2, rooms, building_age, price, rent, listing_date
FROM listings
ORDER BY id`

// PostgresStore loads listings from a Postgres database via pgx.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewPostgresStore connects a pool using the database configuration and
// verifies the connection with a ping.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{
		pool:         pool,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger.With(slog.String("component", "postgres_store")),
	}, nil
}

// LoadListings queries all listings. Nullable columns scan into pointers so
// missing values survive as nil rather than zero.
func (s *PostgresStore) LoadListings(ctx context.Context) ([]analysis.ListingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, listingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var records []analysis.ListingRecord
	skipped := 0
	for rows.Next() {
		var (
			record      analysis.ListingRecord
			listingType string
			listingDate *time.Time
		)
		if err := rows.Scan(
			&record.City,
			&record.District,
			&record.Neighbourhood,
			&record.PropertyType,
			&listingType,
			&record.SizeM2,
			&record.Rooms,
			&record.BuildingAge,
			&record.Price,
			&record.Rent,
			&listingDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		record.ListingType = analysis.ListingType(listingType)
		record.ListingDate = listingDate

		if !record.IsValid() {
			skipped++
			s.logger.WarnContext(ctx, "skipping invalid listing row",
				"listing_type", listingType,
				"size_m2", record.SizeM2,
			)
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	s.logger.InfoContext(ctx, "listings loaded",
		"source", "postgres",
		"records", len(records),
		"skipped", skipped,
	)
	return records, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
