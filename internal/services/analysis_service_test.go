package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatepulse/internal/analysis"
	apierrors "estatepulse/internal/errors"
)

// stubStore serves a fixed record set and counts loads.
type stubStore struct {
	records []analysis.ListingRecord
	err     error
	loads   int
}

func (s *stubStore) LoadListings(ctx context.Context) ([]analysis.ListingRecord, error) {
	s.loads++
	return s.records, s.err
}

func f64(v float64) *float64 { return &v }

func fixtureRecords() []analysis.ListingRecord {
	var records []analysis.ListingRecord
	for year := 2021; year <= 2025; year++ {
		date := time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
		records = append(records,
			analysis.ListingRecord{
				City: "Istanbul", District: "Kadikoy", PropertyType: "apartment",
				ListingType: analysis.ListingSale, SizeM2: 100,
				Price: f64(1000000), ListingDate: &date,
			},
			analysis.ListingRecord{
				City: "Istanbul", District: "Kadikoy", PropertyType: "apartment",
				ListingType: analysis.ListingRent, SizeM2: 100,
				Rent: f64(10000), ListingDate: &date,
			},
		)
	}
	return records
}

func newTestService(store *stubStore) *AnalysisService {
	return NewAnalysisService(store, slog.Default())
}

func TestAnalyzeHappyPath(t *testing.T) {
	store := &stubStore{records: fixtureRecords()}
	svc := newTestService(store)

	result, err := svc.Analyze(context.Background(), AnalysisRequest{
		City:        "istanbul",
		AsOf:        "2025-06-30",
		Granularity: "year",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Summary.ListingsCount)
	assert.Len(t, result.TimeSeries, 5)
	require.NotNil(t, result.YieldMetrics.RentalYieldPercent)
	assert.InDelta(t, 12.0, *result.YieldMetrics.RentalYieldPercent, 1e-9)
}

func TestAnalyzeCachesRecordsAcrossCalls(t *testing.T) {
	store := &stubStore{records: fixtureRecords()}
	svc := newTestService(store)

	_, err := svc.Analyze(context.Background(), AnalysisRequest{AsOf: "2025-06-30"})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), AnalysisRequest{AsOf: "2025-06-30"})
	require.NoError(t, err)

	assert.Equal(t, 1, store.loads)
}

func TestAnalyzeZeroMatchesReturnsNotFound(t *testing.T) {
	store := &stubStore{records: fixtureRecords()}
	svc := newTestService(store)

	_, err := svc.Analyze(context.Background(), AnalysisRequest{City: "Trabzon"})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NO_LISTINGS_MATCH", apiErr.ErrorCode)
}

func TestAnalyzeValidation(t *testing.T) {
	store := &stubStore{records: fixtureRecords()}
	svc := newTestService(store)

	tests := []struct {
		name string
		req  AnalysisRequest
	}{
		{"bad listing type", AnalysisRequest{ListingType: "auction"}},
		{"bad granularity", AnalysisRequest{Granularity: "week"}},
		{"bad as_of format", AnalysisRequest{AsOf: "June 2025"}},
		{"negative min size", AnalysisRequest{MinSize: f64(-1)}},
		{"inverted size range", AnalysisRequest{MinSize: f64(100), MaxSize: f64(50)}},
		{"inverted rooms range", AnalysisRequest{MinRooms: f64(4), MaxRooms: f64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.req)
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.True(t, stderrors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		})
	}

	// Validation failures never touch the store.
	assert.Equal(t, 0, store.loads)
}

func TestAnalyzeStoreFailureWrapsDataSourceError(t *testing.T) {
	store := &stubStore{err: stderrors.New("connection refused")}
	svc := newTestService(store)

	_, err := svc.Analyze(context.Background(), AnalysisRequest{})
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "DATA_SOURCE_ERROR", apiErr.ErrorCode)
}

func TestRecordCount(t *testing.T) {
	store := &stubStore{records: fixtureRecords()}
	svc := newTestService(store)

	count, err := svc.RecordCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
