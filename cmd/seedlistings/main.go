// Command seedlistings loads a listings CSV into the Postgres schema used by
// the analytics server. It creates the table when missing and inserts rows
// in concurrent batches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"estatepulse/internal/analysis"
	"estatepulse/internal/store"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS listings (
    id            BIGSERIAL PRIMARY KEY,
    city          TEXT NOT NULL,
    district      TEXT NOT NULL DEFAULT '',
    neighbourhood TEXT NOT NULL DEFAULT '',
    property_type TEXT NOT NULL DEFAULT '',
    listing_type  TEXT NOT NULL,
    size_m2       DOUBLE PRECISION NOT NULL,
    rooms         INTEGER,
    building_age  INTEGER,
    price         DOUBLE PRECISION,
    rent          DOUBLE PRECISION,
    listing_date  DATE
)`

const insertSQL = `
INSERT INTO listings (city, district, neighbourhood, property_type, listing_type,
                      size_m2, rooms, building_age, price, rent, listing_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seedlistings: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		csvPath   = flag.String("csv", "data/raw/mock_listings.csv", "path to the listings CSV")
		dbURL     = flag.String("database-url", os.Getenv("ESTATE_DATABASE_URL"), "Postgres connection URL")
		batchSize = flag.Int("batch", 500, "rows per insert batch")
		workers   = flag.Int("workers", 4, "concurrent insert workers")
		truncate  = flag.Bool("truncate", false, "truncate the listings table before seeding")
	)
	flag.Parse()

	if *dbURL == "" {
		return fmt.Errorf("database URL required (use -database-url or ESTATE_DATABASE_URL)")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	records, err := store.NewCSVStore(*csvPath, logger).LoadListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no valid records in %s", *csvPath)
	}

	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if *truncate {
		if _, err := pool.Exec(ctx, "TRUNCATE listings"); err != nil {
			return fmt.Errorf("failed to truncate: %w", err)
		}
	}

	batches := make(chan []analysis.ListingRecord)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(batches)
		for start := 0; start < len(records); start += *batchSize {
			end := start + *batchSize
			if end > len(records) {
				end = len(records)
			}
			select {
			case batches <- records[start:end]:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < *workers; i++ {
		g.Go(func() error {
			for chunk := range batches {
				if err := insertBatch(gctx, pool, chunk); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("seed completed", "records", len(records), "source", *csvPath)
	return nil
}

// insertBatch writes one chunk of records inside a pgx batch.
func insertBatch(ctx context.Context, pool *pgxpool.Pool, records []analysis.ListingRecord) error {
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insertSQL,
			r.City, r.District, r.Neighbourhood, r.PropertyType, string(r.ListingType),
			r.SizeM2, r.Rooms, r.BuildingAge, r.Price, r.Rent, r.ListingDate,
		)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert batch: %w", err)
		}
	}
	return nil
}
