package analysis

import "fmt"

// Insight titles, in the fixed order they are emitted.
const (
	InsightMarketActivity = "Market Activity"
	InsightRentalYield    = "Rental Yield"
	InsightPriceMomentum  = "Price Momentum"
	InsightOverall        = "Overall Recommendation"
)

// BuildInsights turns the computed metrics into ordered human-readable
// statements. The synthesis is fully deterministic: market activity always
// comes first, the rental-yield and price-momentum insights appear only
// when their metric is defined, and the composite recommendation always
// closes the list.
func BuildInsights(summary PriceSummary, metrics YieldMetrics) []Insight {
	insights := make([]Insight, 0, 4)

	activity := Insight{Title: InsightMarketActivity}
	if summary.AveragePricePerSqm != nil {
		activity.Detail = fmt.Sprintf(
			"Analysed %d listings with an average sale price per m² of %.0f TRY.",
			summary.ListingsCount, *summary.AveragePricePerSqm)
	} else {
		activity.Detail = "Insufficient sale data for price per m²."
	}
	insights = append(insights, activity)

	if metrics.RentalYieldPercent != nil {
		yield := Insight{
			Title:  InsightRentalYield,
			Detail: fmt.Sprintf("Estimated gross rental yield sits at %.2f%%.", *metrics.RentalYieldPercent),
		}
		if *metrics.RentalYieldPercent >= YieldBuyThreshold {
			yield.Recommendation = RecommendationBuy
		}
		insights = append(insights, yield)
	}

	if metrics.FiveYearCAGRPercent != nil {
		momentum := Insight{
			Title:  InsightPriceMomentum,
			Detail: fmt.Sprintf("Five-year CAGR is %.2f%%.", *metrics.FiveYearCAGRPercent),
		}
		if *metrics.FiveYearCAGRPercent >= GrowthBuyThreshold {
			momentum.Recommendation = RecommendationBuy
		}
		insights = append(insights, momentum)
	}

	insights = append(insights, Insight{
		Title:          InsightOverall,
		Detail:         fmt.Sprintf("Composite investment index suggests a %s outlook.", metrics.Recommendation),
		Recommendation: metrics.Recommendation,
	})

	return insights
}
