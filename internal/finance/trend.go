package finance

import "time"

const (
	trendMonths     = 3
	trendUpperRatio = 1.1
	trendLowerRatio = 0.9
)

// PredictSpending classifies the spending trend of every expense category
// seen in the current month or the two months before it.
//
// A month in which a category has no expenses counts as zero, so the
// average is always taken over three months. The latest value is the
// current month's total. A category is increasing when the latest value
// exceeds the average by more than 10%, decreasing when it falls more than
// 10% below it, and stable otherwise. The prediction is the average scaled
// by the same 10% in the direction of the trend, rounded to a whole unit.
//
// This is a rule of thumb, not a forecast: there is no seasonality and no
// confidence interval.
func PredictSpending(transactions []Transaction, now time.Time) []SpendingPattern {
	expenses := OfKind(transactions, Expense)

	monthly := make(map[string][trendMonths]float64)
	order := make([]string, 0)
	for i := 0; i < trendMonths; i++ {
		for _, c := range GroupByCategory(FilterByMonth(expenses, MonthsAgo(now, i))) {
			totals, seen := monthly[c.Category]
			if !seen {
				order = append(order, c.Category)
			}
			totals[i] = c.Amount
			monthly[c.Category] = totals
		}
	}

	patterns := make([]SpendingPattern, 0, len(order))
	for _, category := range order {
		totals := monthly[category]

		var sum float64
		for _, v := range totals {
			sum += v
		}
		average := sum / trendMonths
		trend := classifyTrend(totals[0], average)

		patterns = append(patterns, SpendingPattern{
			Category:        category,
			Trend:           trend,
			AverageSpending: average,
			Prediction:      roundHalfUp(predict(trend, average)),
		})
	}
	return patterns
}

func classifyTrend(latest, average float64) Trend {
	switch {
	case latest > average*trendUpperRatio:
		return TrendIncreasing
	case latest < average*trendLowerRatio:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func predict(trend Trend, average float64) float64 {
	switch trend {
	case TrendIncreasing:
		return average * trendUpperRatio
	case TrendDecreasing:
		return average * trendLowerRatio
	default:
		return average
	}
}
