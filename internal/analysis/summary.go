package analysis

// Summarize computes the listing count and the per-square-metre price and
// rent averages over a filtered record set. The count covers every record;
// the averages only cover records of the matching listing type with a
// positive amount and a positive size, so a degenerate size can never cause
// a division by zero or poison the mean.
func Summarize(records []ListingRecord) PriceSummary {
	var (
		saleSum float64
		saleN   int
		rentSum float64
		rentN   int
	)

	for _, rec := range records {
		if rec.SizeM2 <= 0 {
			continue
		}
		switch rec.ListingType {
		case ListingSale:
			if rec.Price != nil && *rec.Price > 0 {
				saleSum += *rec.Price / rec.SizeM2
				saleN++
			}
		case ListingRent:
			if rec.Rent != nil && *rec.Rent > 0 {
				rentSum += *rec.Rent / rec.SizeM2
				rentN++
			}
		}
	}

	summary := PriceSummary{ListingsCount: len(records)}
	if saleN > 0 {
		avg := saleSum / float64(saleN)
		summary.AveragePricePerSqm = &avg
	}
	if rentN > 0 {
		avg := rentSum / float64(rentN)
		summary.AverageRentPerSqm = &avg
	}
	return summary
}
