package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"estatepulse/internal/analysis"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelStoreLoadsRows(t *testing.T) {
	path := writeWorkbook(t, "Listings", [][]interface{}{
		{"city", "district", "neighbourhood", "property_type", "listing_type", "size_m2", "rooms", "building_age", "price", "rent", "listing_date"},
		{"Istanbul", "Kadikoy", "Moda", "apartment", "sale", 100, 3, 5, 2500000, nil, "2024-03-15"},
		{"Ankara", "Cankaya", nil, "apartment", "rent", 90, 2, 10, nil, 18000, nil},
	})

	store := NewExcelStore(path, "Listings", slog.Default())
	records, err := store.LoadListings(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, analysis.ListingSale, records[0].ListingType)
	require.NotNil(t, records[0].Price)
	assert.Equal(t, 2500000.0, *records[0].Price)
	require.NotNil(t, records[1].Rent)
	assert.Equal(t, 18000.0, *records[1].Rent)
}

func TestExcelStoreDefaultsToFirstSheet(t *testing.T) {
	path := writeWorkbook(t, "Anything", [][]interface{}{
		{"city", "district", "neighbourhood", "property_type", "listing_type", "size_m2", "rooms", "building_age", "price", "rent", "listing_date"},
		{"Izmir", "Konak", nil, "apartment", "sale", 120, nil, nil, 1800000, nil, nil},
	})

	store := NewExcelStore(path, "", slog.Default())
	records, err := store.LoadListings(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Izmir", records[0].City)
}

func TestExcelStoreMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Listings", [][]interface{}{
		{"city", "district", "neighbourhood", "property_type", "listing_type", "size_m2", "rooms", "building_age", "price", "rent", "listing_date"},
	})

	store := NewExcelStore(path, "Nope", slog.Default())
	_, err := store.LoadListings(context.Background())
	assert.Error(t, err)
}
