package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"estatepulse/internal/analysis"
)

// ExcelStore loads listings from a worksheet of an xlsx workbook.
type ExcelStore struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewExcelStore creates an Excel-backed listing store reading the named
// sheet. An empty sheet name selects the first sheet in the workbook.
func NewExcelStore(path, sheet string, logger *slog.Logger) *ExcelStore {
	return &ExcelStore{
		path:   path,
		sheet:  sheet,
		logger: logger.With(slog.String("component", "excel_store")),
	}
}

// LoadListings reads and validates every row of the sheet. As with the CSV
// loader, invalid rows are skipped with a warning.
func (s *ExcelStore) LoadListings(ctx context.Context) ([]analysis.ListingRecord, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheet)
	}
	idx := buildColumnIndex(rows[0])

	var records []analysis.ListingRecord
	skipped := 0
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := parseListingRow(idx, row, i+2)
		if err != nil {
			skipped++
			s.logger.WarnContext(ctx, "skipping invalid listing row", "error", err.Error())
			continue
		}
		records = append(records, record)
	}

	s.logger.InfoContext(ctx, "listings loaded",
		"path", s.path,
		"sheet", sheet,
		"records", len(records),
		"skipped", skipped,
	)
	return records, nil
}
