package analysis

// Analyze runs the full pricing pipeline for one request: filter the record
// set, aggregate the summary, build the time series, derive the yield and
// growth metrics, and render the insights. The input slice is treated as
// read-only and the result is built fresh, so concurrent calls over a
// shared record set need no synchronization.
//
// Zero matching records is not an error here: the result carries a zero
// count and undefined metrics, and whether that should surface as a
// not-found condition is the transport layer's policy.
func Analyze(records []ListingRecord, criteria FilterCriteria) AnalysisResult {
	granularity := criteria.EffectiveGranularity()

	filtered := FilterRecords(records, criteria)
	summary := Summarize(filtered)
	series := BuildTimeSeries(filtered, criteria.EffectiveAsOf(), granularity)
	metrics := ComputeYieldMetrics(series, granularity)
	insights := BuildInsights(summary, metrics)

	return AnalysisResult{
		Filters:      criteria.Normalized(),
		Summary:      summary,
		TimeSeries:   series,
		YieldMetrics: metrics,
		Insights:     insights,
	}
}
