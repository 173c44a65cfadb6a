// Package store provides the listing loaders. Each loader reads its source
// once, validates the rows and hands back an immutable record slice for the
// analysis service to cache.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"estatepulse/internal/analysis"
)

// columnIndex maps normalized header names to their column position.
type columnIndex map[string]int

// buildColumnIndex normalizes the header row into a lookup table. Header
// matching is case-insensitive and tolerant of surrounding whitespace.
func buildColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// cell returns the trimmed value of the named column, or empty when the
// column is absent or the row is short.
func (ci columnIndex) cell(row []string, names ...string) string {
	for _, name := range names {
		i, ok := ci[name]
		if !ok || i >= len(row) {
			continue
		}
		return strings.TrimSpace(row[i])
	}
	return ""
}

// dateLayouts are tried in order when parsing listing dates.
var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02/01/2006"}

// parseListingRow converts one source row into a ListingRecord. Rows with a
// missing or unknown listing type, a non-positive size, or a missing price
// for their type fail validation and are reported back to the loader.
func parseListingRow(idx columnIndex, row []string, line int) (analysis.ListingRecord, error) {
	record := analysis.ListingRecord{
		City:          idx.cell(row, "city"),
		District:      idx.cell(row, "district"),
		Neighbourhood: idx.cell(row, "neighbourhood", "neighborhood"),
		PropertyType:  idx.cell(row, "property_type"),
		ListingType:   analysis.ListingType(strings.ToLower(idx.cell(row, "listing_type"))),
	}

	size, err := parseFloat(idx.cell(row, "size_m2"))
	if err != nil {
		return record, fmt.Errorf("row %d: size_m2: %w", line, err)
	}
	if size != nil {
		record.SizeM2 = *size
	}

	rooms, err := parseInt(idx.cell(row, "rooms"))
	if err != nil {
		return record, fmt.Errorf("row %d: rooms: %w", line, err)
	}
	record.Rooms = rooms

	age, err := parseInt(idx.cell(row, "building_age"))
	if err != nil {
		return record, fmt.Errorf("row %d: building_age: %w", line, err)
	}
	record.BuildingAge = age

	record.Price, err = parseFloat(idx.cell(row, "price"))
	if err != nil {
		return record, fmt.Errorf("row %d: price: %w", line, err)
	}

	record.Rent, err = parseFloat(idx.cell(row, "rent"))
	if err != nil {
		return record, fmt.Errorf("row %d: rent: %w", line, err)
	}

	if raw := idx.cell(row, "listing_date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return record, fmt.Errorf("row %d: listing_date: %w", line, err)
		}
		record.ListingDate = &date
	}

	if !record.IsValid() {
		return record, fmt.Errorf("row %d: invalid listing record (type %q, size %.2f)", line, record.ListingType, record.SizeM2)
	}

	return record, nil
}

func parseFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as number", raw)
	}
	return &v, nil
}

func parseInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	// Some exports carry integer columns as "3.0".
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		v := int(f)
		return &v, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q as integer", raw)
	}
	return &v, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", raw)
}
