package analysis

import "math"

// ComputeYieldMetrics derives the gross rental yield, the five-year
// compound annual growth rate, and the composite investment index from a
// time series. Averages are period-weighted means over the per-period
// averages, so a month with disproportionately many listings carries the
// same weight as any other month. Each metric degrades independently to nil
// when its inputs are missing; the computation as a whole never fails.
func ComputeYieldMetrics(series []TimeSeriesPoint, granularity Granularity) YieldMetrics {
	metrics := YieldMetrics{Recommendation: RecommendationHold}

	metrics.AverageSalePrice = periodMean(series, func(p TimeSeriesPoint) *float64 { return p.AverageSalePrice })
	metrics.AverageRentPrice = periodMean(series, func(p TimeSeriesPoint) *float64 { return p.AverageRentPrice })

	if metrics.AverageSalePrice != nil && metrics.AverageRentPrice != nil && *metrics.AverageSalePrice > 0 {
		yield := (MonthsPerYear * *metrics.AverageRentPrice) / *metrics.AverageSalePrice * 100
		metrics.RentalYieldPercent = &yield
	}

	if cagr, ok := compoundGrowth(series, granularity); ok {
		metrics.FiveYearCAGRPercent = &cagr
	}

	metrics.InvestmentIndex, metrics.Recommendation = classify(metrics.RentalYieldPercent, metrics.FiveYearCAGRPercent)
	return metrics
}

// periodMean averages the defined values of one series column.
func periodMean(series []TimeSeriesPoint, value func(TimeSeriesPoint) *float64) *float64 {
	var sum float64
	var n int
	for _, point := range series {
		if v := value(point); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

// compoundGrowth computes the CAGR between the chronologically first and
// last points that carry a sale average. It requires at least two qualifying
// points and a strictly positive starting value. The time base is the
// elapsed calendar time between the two periods, floored at MinGrowthYears
// so sub-year spans cannot inflate the annualized rate.
func compoundGrowth(series []TimeSeriesPoint, granularity Granularity) (float64, bool) {
	var first, last *TimeSeriesPoint
	qualifying := 0
	for i := range series {
		if series[i].AverageSalePrice == nil {
			continue
		}
		if first == nil {
			first = &series[i]
		}
		last = &series[i]
		qualifying++
	}

	if qualifying < 2 {
		return 0, false
	}
	beginning := *first.AverageSalePrice
	if beginning <= 0 {
		return 0, false
	}

	years := elapsedYears(first.Period, last.Period, granularity)
	if years < MinGrowthYears {
		years = MinGrowthYears
	}

	cagr := (math.Pow(*last.AverageSalePrice/beginning, 1/years) - 1) * 100
	return cagr, true
}

// elapsedYears measures the calendar distance between two period labels in
// fractional years. Unparseable labels count as zero distance, which the
// caller floors anyway.
func elapsedYears(firstPeriod, lastPeriod string, granularity Granularity) float64 {
	first, err := ParsePeriod(firstPeriod, granularity)
	if err != nil {
		return 0
	}
	last, err := ParsePeriod(lastPeriod, granularity)
	if err != nil {
		return 0
	}
	months := (last.Year()-first.Year())*MonthsPerYear + int(last.Month()) - int(first.Month())
	return float64(months) / MonthsPerYear
}

// classify blends the available signals into the investment index and maps
// it onto a recommendation. With both signals the index is the weighted
// blend classified against the BUY/RENT band; with a single signal the
// index equals that signal and is classified against its own BUY threshold;
// with no signal at all the index stays undefined and the recommendation
// defaults to HOLD.
func classify(yield, growth *float64) (*float64, Recommendation) {
	switch {
	case yield != nil && growth != nil:
		index := YieldWeight**yield + GrowthWeight**growth
		switch {
		case index >= IndexBuyThreshold:
			return &index, RecommendationBuy
		case index <= IndexRentThreshold:
			return &index, RecommendationRent
		default:
			return &index, RecommendationHold
		}
	case yield != nil:
		index := *yield
		if index >= YieldBuyThreshold {
			return &index, RecommendationBuy
		}
		return &index, RecommendationHold
	case growth != nil:
		index := *growth
		if index >= GrowthBuyThreshold {
			return &index, RecommendationBuy
		}
		return &index, RecommendationHold
	default:
		return nil, RecommendationHold
	}
}
