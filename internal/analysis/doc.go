// Package analysis implements the market-pricing analytics pipeline over
// real-estate listing records.
//
// The pipeline runs strictly in this order:
//
//  1. FilterRecords: select the subset matching the caller's criteria
//  2. Summarize: listing count and per-square-metre price/rent averages
//  3. BuildTimeSeries: per-period sale/rent averages inside a trailing
//     five-year window anchored at the as-of date
//  4. ComputeYieldMetrics: gross rental yield, five-year CAGR and the
//     composite investment index with a BUY/RENT/HOLD classification
//  5. BuildInsights: ordered human-readable statements
//
// Analyze composes all five steps into one AnalysisResult.
//
// Every function here is a pure function of its inputs: no I/O, no shared
// mutable state, no randomness. Callers may run analyses concurrently over
// the same record set as long as the slice itself is not mutated while in
// use. Arithmetic edge cases (no qualifying records, single-point series,
// non-positive growth base) degrade the affected metric to nil instead of
// failing the computation; partial results always beat total failure.
//
// # Usage
//
//	records, err := store.LoadListings(ctx)
//	if err != nil {
//	    return err
//	}
//	result := analysis.Analyze(records, analysis.FilterCriteria{
//	    City:        "Istanbul",
//	    ListingType: "sale",
//	    MinSize:     &minSize,
//	})
//
// Loading records and mapping results to a wire format are collaborator
// concerns; this package never touches the filesystem or the network.
package analysis
