package analysis

import (
	"strconv"
	"time"
)

// ListingType identifies whether a record offers the property for sale or rent.
type ListingType string

const (
	// ListingSale marks a record carrying a sale price.
	ListingSale ListingType = "sale"
	// ListingRent marks a record carrying a monthly rent.
	ListingRent ListingType = "rent"
)

// Granularity selects the calendar bucket used for time-series grouping.
type Granularity string

const (
	// GranularityMonth groups records by calendar month (YYYY-MM periods).
	GranularityMonth Granularity = "month"
	// GranularityYear groups records by calendar year (YYYY periods).
	GranularityYear Granularity = "year"
)

// Recommendation is the qualitative outcome of the investment classification.
type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationRent Recommendation = "RENT"
	RecommendationHold Recommendation = "HOLD"
)

// Policy constants for the yield/growth classification. The weights and
// thresholds are product decisions pinned by tests; changing them changes
// the recommendation surface of the whole API.
const (
	// WindowYears is the trailing analysis window anchored at the as-of date.
	WindowYears = 5

	// MonthsPerYear annualizes monthly rent for the gross yield.
	MonthsPerYear = 12

	// YieldWeight and GrowthWeight blend the two signals into the
	// investment index when both are available.
	YieldWeight  = 0.5
	GrowthWeight = 0.5

	// IndexBuyThreshold and IndexRentThreshold classify the blended index.
	IndexBuyThreshold  = 12.0
	IndexRentThreshold = 5.0

	// YieldBuyThreshold classifies a standalone rental yield signal and
	// tags the rental-yield insight.
	YieldBuyThreshold = 12.0

	// GrowthBuyThreshold classifies a standalone CAGR signal and tags the
	// price-momentum insight.
	GrowthBuyThreshold = 8.0

	// MinGrowthYears floors the CAGR time base so sub-year spans cannot
	// blow up the exponent.
	MinGrowthYears = 1.0
)

// ListingRecord is a single real-estate listing as produced by a loader.
// Records are immutable once loaded; exactly one of Price and Rent is set,
// consistent with ListingType. Rooms and BuildingAge are nil when the source
// row left them blank.
type ListingRecord struct {
	City          string      `json:"city"`
	District      string      `json:"district"`
	Neighbourhood string      `json:"neighbourhood"`
	PropertyType  string      `json:"property_type"`
	ListingType   ListingType `json:"listing_type"`
	SizeM2        float64     `json:"size_m2"`
	Rooms         *int        `json:"rooms,omitempty"`
	BuildingAge   *int        `json:"building_age,omitempty"`
	Price         *float64    `json:"price,omitempty"`
	Rent          *float64    `json:"rent,omitempty"`
	ListingDate   *time.Time  `json:"listing_date,omitempty"`
}

// IsValid checks the structural invariants of a loaded record.
func (lr ListingRecord) IsValid() bool {
	if lr.SizeM2 <= 0 {
		return false
	}
	switch lr.ListingType {
	case ListingSale:
		return lr.Price != nil && *lr.Price > 0 && lr.Rent == nil
	case ListingRent:
		return lr.Rent != nil && *lr.Rent > 0 && lr.Price == nil
	default:
		return false
	}
}

// FilterCriteria is the caller-supplied selection over the record set.
// String filters are case-insensitive exact matches; numeric ranges are
// inclusive on both bounds. An inverted range matches nothing. AsOf anchors
// the time-window computations and defaults to the current date.
type FilterCriteria struct {
	City          string
	District      string
	Neighbourhood string
	PropertyType  string
	ListingType   string

	MinSize  *float64
	MaxSize  *float64
	MinRooms *float64
	MaxRooms *float64
	MinAge   *float64
	MaxAge   *float64

	AsOf        time.Time
	Granularity Granularity
}

// EffectiveAsOf returns the window anchor, defaulting to the current date.
func (fc FilterCriteria) EffectiveAsOf() time.Time {
	if fc.AsOf.IsZero() {
		return time.Now().UTC()
	}
	return fc.AsOf
}

// EffectiveGranularity returns the grouping mode, defaulting to monthly.
func (fc FilterCriteria) EffectiveGranularity() Granularity {
	if fc.Granularity == GranularityYear {
		return GranularityYear
	}
	return GranularityMonth
}

// Normalized renders the criteria actually applied as a flat, display-ready
// map. Half-open ranges are shown as "min-∞" or "0-max".
func (fc FilterCriteria) Normalized() map[string]string {
	applied := map[string]string{
		"as_of":       fc.EffectiveAsOf().Format("2006-01-02"),
		"granularity": string(fc.EffectiveGranularity()),
	}

	for key, value := range map[string]string{
		"city":          fc.City,
		"district":      fc.District,
		"neighbourhood": fc.Neighbourhood,
		"property_type": fc.PropertyType,
		"listing_type":  fc.ListingType,
	} {
		if value != "" {
			applied[key] = value
		}
	}

	for key, bounds := range map[string][2]*float64{
		"size_m2":      {fc.MinSize, fc.MaxSize},
		"rooms":        {fc.MinRooms, fc.MaxRooms},
		"building_age": {fc.MinAge, fc.MaxAge},
	} {
		if display := formatRange(bounds[0], bounds[1]); display != "" {
			applied[key] = display
		}
	}

	return applied
}

// formatRange renders an inclusive numeric range for echoing back to callers.
func formatRange(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return formatBound(*min) + "-" + formatBound(*max)
	case min != nil:
		return formatBound(*min) + "-∞"
	case max != nil:
		return "0-" + formatBound(*max)
	default:
		return ""
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PriceSummary aggregates a filtered record set. The per-square-metre
// averages are nil when no qualifying sale or rent records exist.
type PriceSummary struct {
	ListingsCount      int      `json:"listings_count"`
	AveragePricePerSqm *float64 `json:"average_price_per_sqm,omitempty"`
	AverageRentPerSqm  *float64 `json:"average_rent_per_sqm,omitempty"`
}

// TimeSeriesPoint is one calendar period of the price history. A point is
// only emitted when at least one of the two averages is defined.
type TimeSeriesPoint struct {
	Period           string   `json:"period"`
	AverageSalePrice *float64 `json:"average_sale_price,omitempty"`
	AverageRentPrice *float64 `json:"average_rent_price,omitempty"`
}

// YieldMetrics carries the derived investment signals. The sale and rent
// averages are period-weighted means over the time series, not record-level
// means, so months with many listings do not dominate.
type YieldMetrics struct {
	AverageSalePrice    *float64       `json:"average_sale_price,omitempty"`
	AverageRentPrice    *float64       `json:"average_rent_price,omitempty"`
	RentalYieldPercent  *float64       `json:"rental_yield_percent,omitempty"`
	FiveYearCAGRPercent *float64       `json:"five_year_cagr_percent,omitempty"`
	InvestmentIndex     *float64       `json:"investment_index,omitempty"`
	Recommendation      Recommendation `json:"recommendation"`
}

// Insight is a single human-readable statement derived from the metrics.
type Insight struct {
	Title          string         `json:"title"`
	Detail         string         `json:"detail"`
	Recommendation Recommendation `json:"recommendation,omitempty"`
}

// AnalysisResult is the full outcome of one analysis run. It is constructed
// fresh per request, never mutated afterwards, and safe to serialize as-is.
type AnalysisResult struct {
	Filters      map[string]string `json:"filters"`
	Summary      PriceSummary      `json:"summary"`
	TimeSeries   []TimeSeriesPoint `json:"time_series"`
	YieldMetrics YieldMetrics      `json:"yield_metrics"`
	Insights     []Insight         `json:"insights"`
}
