package finance

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
)

const (
	approachingLimitRatio = 0.8
	changeThreshold       = 20.0
)

// GenerateInsights evaluates the insight rules against the month of now
// and the month before it:
//
//  1. a high impact warning for every budget whose current-month spending
//     is over its limit,
//  2. otherwise a medium impact warning when spending is over 80% of it,
//  3. one month-over-month warning or success when total expenses moved
//     by more than 20% in either direction,
//  4. an info insight naming the largest expense category of the month.
//
// Insight ids depend only on the rule and the budget or category, so the
// same input always yields the same list. A nil formatter uses the
// default one.
func GenerateInsights(transactions []Transaction, budgets []Budget, now time.Time, f *Formatter) []Insight {
	if f == nil {
		f = defaultFormatter
	}

	insights := make([]Insight, 0)
	thisMonth := FilterByMonth(transactions, now)
	lastMonth := FilterByMonth(transactions, MonthsAgo(now, 1))

	spent := spentByCategory(thisMonth)
	for _, b := range budgets {
		s := spent[b.Category]
		switch {
		case s > b.Limit:
			insights = append(insights, Insight{
				ID:          "budget-" + b.ID,
				Type:        InsightWarning,
				Title:       "Budget Exceeded: " + b.Category,
				Description: fmt.Sprintf("You've spent %s out of %s budget.", f.Format(s), f.Format(b.Limit)),
				Category:    b.Category,
				Impact:      ImpactHigh,
			})
		case s > b.Limit*approachingLimitRatio:
			insights = append(insights, Insight{
				ID:          "budget-warning-" + b.ID,
				Type:        InsightWarning,
				Title:       "Approaching Limit: " + b.Category,
				Description: fmt.Sprintf("You've used %.0f%% of your %s budget.", roundHalfUp(percentOf(s, b.Limit)), b.Category),
				Category:    b.Category,
				Impact:      ImpactMedium,
			})
		}
	}

	change := PercentChange(TotalByKind(lastMonth, Expense), TotalByKind(thisMonth, Expense))
	if change > changeThreshold {
		insights = append(insights, Insight{
			ID:          "spending-increase",
			Type:        InsightWarning,
			Title:       "Spending Increased",
			Description: fmt.Sprintf("Your spending is %.0f%% higher than last month.", roundHalfUp(change)),
			Impact:      ImpactHigh,
		})
	} else if change < -changeThreshold {
		insights = append(insights, Insight{
			ID:          "spending-decrease",
			Type:        InsightSuccess,
			Title:       "Great Progress!",
			Description: fmt.Sprintf("You've reduced spending by %.0f%% compared to last month.", math.Abs(roundHalfUp(change))),
			Impact:      ImpactHigh,
		})
	}

	if top, ok := TopCategory(GroupByCategory(OfKind(thisMonth, Expense))); ok {
		insights = append(insights, Insight{
			ID:    "top-category-" + Slug(top.Category),
			Type:  InsightInfo,
			Title: "Top Spending Category",
			Description: fmt.Sprintf("%s accounts for %.0f%% of your expenses (%s).",
				top.Category, roundHalfUp(top.Percentage), f.Format(top.Amount)),
			Category: top.Category,
			Impact:   ImpactMedium,
		})
	}

	return insights
}

// PredictionInsights turns every increasing spending pattern into a low
// impact prediction insight.
func PredictionInsights(patterns []SpendingPattern, f *Formatter) []Insight {
	if f == nil {
		f = defaultFormatter
	}

	insights := make([]Insight, 0)
	for _, p := range patterns {
		if p.Trend != TrendIncreasing {
			continue
		}
		insights = append(insights, Insight{
			ID:    "prediction-" + Slug(p.Category),
			Type:  InsightPrediction,
			Title: "Rising Spending: " + p.Category,
			Description: fmt.Sprintf("%s spending is trending up. Expect around %s next month (3-month average %s).",
				p.Category, f.Format(p.Prediction), f.Format(p.AverageSpending)),
			Category: p.Category,
			Impact:   ImpactLow,
		})
	}
	return insights
}

// PercentChange returns the change from previous to current in percent.
// A zero previous value has no meaningful baseline and yields 0.
func PercentChange(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// TopCategory returns the category with the largest amount. Ties go to
// the category listed first.
func TopCategory(categories []CategoryData) (CategoryData, bool) {
	if len(categories) == 0 {
		return CategoryData{}, false
	}
	top := categories[0]
	for _, c := range categories[1:] {
		if c.Amount > top.Amount {
			top = c
		}
	}
	return top, true
}

// Slug lower-cases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// roundHalfUp rounds to the nearest whole number, halves towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
