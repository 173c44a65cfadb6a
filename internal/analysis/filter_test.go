package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func datep(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// saleRecord builds a minimal valid sale listing for tests.
func saleRecord(city string, price, size float64) ListingRecord {
	return ListingRecord{
		City:         city,
		District:     "Kadikoy",
		PropertyType: "apartment",
		ListingType:  ListingSale,
		SizeM2:       size,
		Rooms:        intp(3),
		BuildingAge:  intp(10),
		Price:        f64(price),
	}
}

// rentRecord builds a minimal valid rent listing for tests.
func rentRecord(city string, rent, size float64) ListingRecord {
	return ListingRecord{
		City:         city,
		District:     "Kadikoy",
		PropertyType: "apartment",
		ListingType:  ListingRent,
		SizeM2:       size,
		Rooms:        intp(2),
		BuildingAge:  intp(5),
		Rent:         f64(rent),
	}
}

func TestFilterRecordsEmptyCriteria(t *testing.T) {
	records := []ListingRecord{
		saleRecord("Istanbul", 1_000_000, 100),
		rentRecord("Ankara", 12_000, 80),
		saleRecord("Izmir", 750_000, 90),
	}

	filtered := FilterRecords(records, FilterCriteria{})

	// No criteria means the full set, unchanged and in order.
	require.Len(t, filtered, len(records))
	assert.Equal(t, records, filtered)
}

func TestFilterRecordsStringCriteria(t *testing.T) {
	records := []ListingRecord{
		saleRecord("Istanbul", 1_000_000, 100),
		saleRecord("ISTANBUL", 900_000, 95),
		rentRecord("Ankara", 12_000, 80),
	}

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     int
	}{
		{"city match is case-insensitive", FilterCriteria{City: "istanbul"}, 2},
		{"city excludes other cities", FilterCriteria{City: "Ankara"}, 1},
		{"no partial matching", FilterCriteria{City: "Istan"}, 0},
		{"listing type sale", FilterCriteria{ListingType: "sale"}, 2},
		{"listing type rent", FilterCriteria{ListingType: "RENT"}, 1},
		{"district match", FilterCriteria{District: "kadikoy"}, 3},
		{"property type mismatch", FilterCriteria{PropertyType: "villa"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterRecords(records, tt.criteria), tt.want)
		})
	}
}

func TestFilterRecordsNumericRanges(t *testing.T) {
	records := []ListingRecord{
		saleRecord("Istanbul", 1_000_000, 80),
		saleRecord("Istanbul", 1_200_000, 120),
		saleRecord("Istanbul", 1_500_000, 200),
	}

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     int
	}{
		{"min size inclusive", FilterCriteria{MinSize: f64(120)}, 2},
		{"max size inclusive", FilterCriteria{MaxSize: f64(120)}, 2},
		{"closed range", FilterCriteria{MinSize: f64(80), MaxSize: f64(120)}, 2},
		{"inverted range matches nothing", FilterCriteria{MinSize: f64(200), MaxSize: f64(80)}, 0},
		{"rooms range", FilterCriteria{MinRooms: f64(3), MaxRooms: f64(3)}, 3},
		{"rooms excluded", FilterCriteria{MinRooms: f64(4)}, 0},
		{"age range", FilterCriteria{MaxAge: f64(9)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterRecords(records, tt.criteria), tt.want)
		})
	}
}

func TestFilterRecordsMissingNumericFieldPasses(t *testing.T) {
	noRooms := saleRecord("Istanbul", 1_000_000, 100)
	noRooms.Rooms = nil
	noRooms.BuildingAge = nil

	filtered := FilterRecords([]ListingRecord{noRooms}, FilterCriteria{
		MinRooms: f64(2),
		MaxAge:   f64(5),
	})

	// Absent fields are no disqualification, not a filter failure.
	assert.Len(t, filtered, 1)
}

func TestFilterRecordsPreservesOrder(t *testing.T) {
	records := []ListingRecord{
		saleRecord("Istanbul", 1, 50),
		rentRecord("Istanbul", 2, 60),
		saleRecord("Istanbul", 3, 70),
		rentRecord("Istanbul", 4, 80),
	}

	filtered := FilterRecords(records, FilterCriteria{MinSize: f64(60)})

	require.Len(t, filtered, 3)
	assert.Equal(t, float64(60), filtered[0].SizeM2)
	assert.Equal(t, float64(70), filtered[1].SizeM2)
	assert.Equal(t, float64(80), filtered[2].SizeM2)
}
