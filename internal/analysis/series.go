package analysis

import (
	"sort"
	"time"
)

// PeriodKey returns the calendar bucket label for a date: "YYYY-MM" for
// monthly grouping, "YYYY" for yearly. Labels sort lexicographically in
// chronological order, which the series builder relies on.
func PeriodKey(date time.Time, granularity Granularity) string {
	if granularity == GranularityYear {
		return date.Format("2006")
	}
	return date.Format("2006-01")
}

// ParsePeriod is the inverse of PeriodKey, returning the first instant of
// the period.
func ParsePeriod(period string, granularity Granularity) (time.Time, error) {
	if granularity == GranularityYear {
		return time.Parse("2006", period)
	}
	return time.Parse("2006-01", period)
}

// windowStart returns the earliest period included in the trailing window of
// WindowYears ending at (and including) the as-of period.
func windowStart(asOf time.Time, granularity Granularity) time.Time {
	if granularity == GranularityYear {
		return asOf.AddDate(-(WindowYears - 1), 0, 0)
	}
	firstOfMonth := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -(WindowYears*MonthsPerYear - 1), 0)
}

// BuildTimeSeries buckets dated records into calendar periods within the
// trailing five-year window ending at asOf and computes the mean sale price
// and mean rent per period. Records without a listing date are excluded
// entirely. Periods with no defined average are dropped rather than emitted
// as nulls; an empty window yields an empty series, which is a valid
// outcome. The result is sorted ascending by period and has unique periods.
func BuildTimeSeries(records []ListingRecord, asOf time.Time, granularity Granularity) []TimeSeriesPoint {
	type bucket struct {
		saleSum float64
		saleN   int
		rentSum float64
		rentN   int
	}

	startKey := PeriodKey(windowStart(asOf, granularity), granularity)
	endKey := PeriodKey(asOf, granularity)

	buckets := make(map[string]*bucket)
	for _, rec := range records {
		if rec.ListingDate == nil {
			continue
		}
		key := PeriodKey(*rec.ListingDate, granularity)
		if key < startKey || key > endKey {
			continue
		}

		var saleAmount, rentAmount float64
		switch rec.ListingType {
		case ListingSale:
			if rec.Price == nil || *rec.Price <= 0 {
				continue
			}
			saleAmount = *rec.Price
		case ListingRent:
			if rec.Rent == nil || *rec.Rent <= 0 {
				continue
			}
			rentAmount = *rec.Rent
		default:
			continue
		}

		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		if saleAmount > 0 {
			b.saleSum += saleAmount
			b.saleN++
		}
		if rentAmount > 0 {
			b.rentSum += rentAmount
			b.rentN++
		}
	}

	periods := make([]string, 0, len(buckets))
	for key := range buckets {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	series := make([]TimeSeriesPoint, 0, len(periods))
	for _, key := range periods {
		b := buckets[key]
		point := TimeSeriesPoint{Period: key}
		if b.saleN > 0 {
			avg := b.saleSum / float64(b.saleN)
			point.AverageSalePrice = &avg
		}
		if b.rentN > 0 {
			avg := b.rentSum / float64(b.rentN)
			point.AverageRentPrice = &avg
		}
		series = append(series, point)
	}
	return series
}
