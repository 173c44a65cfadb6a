// Package services contains the business layer between the HTTP transport
// and the analysis pipeline. The service validates requests, loads and
// caches the listing records and runs the pipeline.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"estatepulse/internal/analysis"
	apierrors "estatepulse/internal/errors"
)

// ListingStore is the loader contract the service depends on. Implementations
// live in internal/store.
type ListingStore interface {
	LoadListings(ctx context.Context) ([]analysis.ListingRecord, error)
}

// AnalysisRequest carries the caller's filter and windowing parameters.
// Zero values mean "no filter" for strings and "unbounded" for ranges.
type AnalysisRequest struct {
	City          string `validate:"omitempty,max=100"`
	District      string `validate:"omitempty,max=100"`
	Neighbourhood string `validate:"omitempty,max=100"`
	PropertyType  string `validate:"omitempty,max=50"`
	ListingType   string `validate:"omitempty,oneof=sale rent"`

	MinSize  *float64 `validate:"omitempty,gte=0"`
	MaxSize  *float64 `validate:"omitempty,gte=0"`
	MinRooms *float64 `validate:"omitempty,gte=0"`
	MaxRooms *float64 `validate:"omitempty,gte=0"`
	MinAge   *float64 `validate:"omitempty,gte=0"`
	MaxAge   *float64 `validate:"omitempty,gte=0"`

	AsOf        string `validate:"omitempty,datetime=2006-01-02"`
	Granularity string `validate:"omitempty,oneof=month year"`
}

// AnalysisService runs price analyses over a cached listing set.
type AnalysisService struct {
	store    ListingStore
	logger   *slog.Logger
	validate *validator.Validate

	mu      sync.Mutex
	records []analysis.ListingRecord
	loaded  bool
}

// NewAnalysisService creates an analysis service over the given store.
func NewAnalysisService(store ListingStore, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		store:    store,
		logger:   logger.With(slog.String("service", "analysis")),
		validate: validator.New(),
	}
}

// Analyze validates the request, ensures records are loaded and runs the
// full pipeline. It returns ErrNoListingsFound when the filters match no
// records, mirroring the API contract.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*analysis.AnalysisResult, error) {
	start := time.Now()

	criteria, err := s.toCriteria(req)
	if err != nil {
		return nil, err
	}

	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}

	result := analysis.Analyze(records, criteria)

	s.logger.InfoContext(ctx, "analysis completed",
		"listings_matched", result.Summary.ListingsCount,
		"periods", len(result.TimeSeries),
		"recommendation", string(result.YieldMetrics.Recommendation),
		"duration", time.Since(start).String(),
	)

	if result.Summary.ListingsCount == 0 {
		return nil, apierrors.ErrNoListingsFound
	}
	return &result, nil
}

// RecordCount reports how many records the service currently serves from.
// It loads the source on first use like Analyze does.
func (s *AnalysisService) RecordCount(ctx context.Context) (int, error) {
	records, err := s.loadRecords(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// loadRecords loads the listing set once and serves the cached slice
// afterwards. Records are immutable after loading so the slice is shared
// without copying.
func (s *AnalysisService) loadRecords(ctx context.Context) ([]analysis.ListingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.records, nil
	}

	records, err := s.store.LoadListings(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "listing load failed", "error", err.Error())
		return nil, apierrors.DataSourceError(err)
	}

	s.records = records
	s.loaded = true
	s.logger.InfoContext(ctx, "listing records cached", "records", len(records))
	return s.records, nil
}

// toCriteria validates the request and converts it into filter criteria.
// Validation failures come back as 400-level API errors with field details.
func (s *AnalysisService) toCriteria(req AnalysisRequest) (analysis.FilterCriteria, error) {
	var criteria analysis.FilterCriteria

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]apierrors.ValidationError, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, apierrors.ValidationError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed %q validation", fe.Tag()),
				})
			}
			return criteria, apierrors.NewValidationErrors(details)
		}
		return criteria, apierrors.ErrInvalidRequest
	}

	if verr := checkRange("size", req.MinSize, req.MaxSize); verr != nil {
		return criteria, verr
	}
	if verr := checkRange("rooms", req.MinRooms, req.MaxRooms); verr != nil {
		return criteria, verr
	}
	if verr := checkRange("age", req.MinAge, req.MaxAge); verr != nil {
		return criteria, verr
	}

	criteria = analysis.FilterCriteria{
		City:          req.City,
		District:      req.District,
		Neighbourhood: req.Neighbourhood,
		PropertyType:  req.PropertyType,
		ListingType:   req.ListingType,
		MinSize:       req.MinSize,
		MaxSize:       req.MaxSize,
		MinRooms:      req.MinRooms,
		MaxRooms:      req.MaxRooms,
		MinAge:        req.MinAge,
		MaxAge:        req.MaxAge,
		Granularity:   analysis.Granularity(req.Granularity),
	}

	if req.AsOf != "" {
		asOf, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			return criteria, apierrors.ErrValidation("as_of", "must be a date in YYYY-MM-DD format")
		}
		criteria.AsOf = asOf.UTC()
	}

	return criteria, nil
}

// checkRange rejects min bounds greater than their max counterpart.
func checkRange(name string, min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return apierrors.ErrValidation("min_"+name, fmt.Sprintf("min_%s cannot exceed max_%s", name, name))
	}
	return nil
}
