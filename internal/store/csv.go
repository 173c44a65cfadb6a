package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"estatepulse/internal/analysis"
)

// CSVStore loads listings from a CSV file with a header row.
type CSVStore struct {
	path   string
	logger *slog.Logger
}

// NewCSVStore creates a CSV-backed listing store.
func NewCSVStore(path string, logger *slog.Logger) *CSVStore {
	return &CSVStore{
		path:   path,
		logger: logger.With(slog.String("component", "csv_store")),
	}
}

// LoadListings reads and validates every row of the file. Rows that fail
// validation are skipped with a warning rather than failing the whole load.
func (s *CSVStore) LoadListings(ctx context.Context) ([]analysis.ListingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open listings file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	idx := buildColumnIndex(header)

	var records []analysis.ListingRecord
	skipped := 0
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		record, err := parseListingRow(idx, row, line)
		if err != nil {
			skipped++
			s.logger.WarnContext(ctx, "skipping invalid listing row", "error", err.Error())
			continue
		}
		records = append(records, record)
	}

	s.logger.InfoContext(ctx, "listings loaded",
		"path", s.path,
		"records", len(records),
		"skipped", skipped,
	)
	return records, nil
}
