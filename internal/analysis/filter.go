package analysis

import "strings"

// FilterRecords returns the subset of records for which every specified
// criterion holds. Predicates are independent, so application order cannot
// change the outcome; the original relative ordering of records is preserved.
// A record whose optional numeric field is absent passes the corresponding
// range check vacuously.
func FilterRecords(records []ListingRecord, criteria FilterCriteria) []ListingRecord {
	filtered := make([]ListingRecord, 0, len(records))
	for _, rec := range records {
		if matchesCriteria(rec, criteria) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func matchesCriteria(rec ListingRecord, c FilterCriteria) bool {
	if !matchesField(c.City, rec.City) ||
		!matchesField(c.District, rec.District) ||
		!matchesField(c.Neighbourhood, rec.Neighbourhood) ||
		!matchesField(c.PropertyType, rec.PropertyType) ||
		!matchesField(c.ListingType, string(rec.ListingType)) {
		return false
	}

	if !floatInRange(rec.SizeM2, c.MinSize, c.MaxSize) {
		return false
	}
	if !intInRange(rec.Rooms, c.MinRooms, c.MaxRooms) {
		return false
	}
	if !intInRange(rec.BuildingAge, c.MinAge, c.MaxAge) {
		return false
	}
	return true
}

// matchesField is a case-insensitive exact match; an unset filter matches
// every record.
func matchesField(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

// floatInRange checks an inclusive range. An inverted range (min > max)
// excludes every value rather than erroring.
func floatInRange(value float64, min, max *float64) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

// intInRange applies floatInRange to an optional integer field; a nil field
// is no disqualification.
func intInRange(value *int, min, max *float64) bool {
	if value == nil {
		return true
	}
	return floatInRange(float64(*value), min, max)
}
