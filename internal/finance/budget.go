package finance

import "time"

// WindowStart returns the start of the trailing window a budget of the
// given period is measured over, ending at now.
func WindowStart(period Period, now time.Time) time.Time {
	switch period {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Yearly:
		return addMonthsClamped(now, -12)
	default:
		return addMonthsClamped(now, -1)
	}
}

// addMonthsClamped moves t by months calendar months at the same clock
// time, clamping the day to the last day of the target month (Mar 31
// minus one month is Feb 28).
func addMonthsClamped(t time.Time, months int) time.Time {
	target := MonthsAgo(t, -months)
	day := min(t.Day(), daysIn(target))
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in t's month.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// WithUtilization pairs every budget with the expenses of its category
// dated in [WindowStart(period, now), now]. The input slices are not
// modified.
func WithUtilization(budgets []Budget, transactions []Transaction, now time.Time) []BudgetUsage {
	result := make([]BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		start := WindowStart(b.Period, now)

		var spent float64
		for _, t := range transactions {
			if t.Type != Expense || t.Category != b.Category {
				continue
			}
			if t.Date.Before(start) || t.Date.After(now) {
				continue
			}
			spent += t.Amount
		}

		result = append(result, BudgetUsage{Budget: b, Spent: spent})
	}
	return result
}

// Percentage returns how much of the limit has been spent, in percent.
func (u BudgetUsage) Percentage() float64 {
	return percentOf(u.Spent, u.Limit)
}

// Remaining returns the unspent part of the limit; negative when over.
func (u BudgetUsage) Remaining() float64 {
	return u.Limit - u.Spent
}

// spentByCategory sums the expenses of transactions per category.
func spentByCategory(transactions []Transaction) map[string]float64 {
	spent := make(map[string]float64)
	for _, t := range transactions {
		if t.Type == Expense {
			spent[t.Category] += t.Amount
		}
	}
	return spent
}
