package finance

import "time"

// TotalByKind sums the amounts of the transactions of the given kind.
func TotalByKind(transactions []Transaction, kind Kind) float64 {
	var total float64
	for _, t := range transactions {
		if t.Type == kind {
			total += t.Amount
		}
	}
	return total
}

// GroupByCategory sums amounts per category and reports each category's
// share of the total. Categories appear in the order they are first seen
// in transactions. When the total is zero every percentage is zero.
func GroupByCategory(transactions []Transaction) []CategoryData {
	sums := make(map[string]float64)
	order := make([]string, 0)
	var total float64

	for _, t := range transactions {
		if _, seen := sums[t.Category]; !seen {
			order = append(order, t.Category)
		}
		sums[t.Category] += t.Amount
		total += t.Amount
	}

	result := make([]CategoryData, 0, len(order))
	for _, category := range order {
		amount := sums[category]
		result = append(result, CategoryData{
			Category:   category,
			Amount:     amount,
			Percentage: percentOf(amount, total),
			Color:      ColorFor(category),
		})
	}
	return result
}

// FilterByMonth returns the transactions dated within the calendar month
// of ref, both ends inclusive. Dates are compared in ref's location.
func FilterByMonth(transactions []Transaction, ref time.Time) []Transaction {
	start, end := MonthBounds(ref)

	result := make([]Transaction, 0)
	for _, t := range transactions {
		d := t.Date.In(ref.Location())
		if !d.Before(start) && !d.After(end) {
			result = append(result, t)
		}
	}
	return result
}

// MonthBounds returns the first and last instant of ref's calendar month.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthsAgo returns the start of the calendar month n months before ref.
// Unlike ref.AddDate(0, -n, 0) it never skips a short month.
func MonthsAgo(ref time.Time, n int) time.Time {
	start, _ := MonthBounds(ref)
	return start.AddDate(0, -n, 0)
}

// OfKind returns the transactions of the given kind.
func OfKind(transactions []Transaction, kind Kind) []Transaction {
	result := make([]Transaction, 0)
	for _, t := range transactions {
		if t.Type == kind {
			result = append(result, t)
		}
	}
	return result
}

// Summarize computes the headline dashboard figures.
func Summarize(transactions []Transaction) Summary {
	income := TotalByKind(transactions, Income)
	expense := TotalByKind(transactions, Expense)
	balance := income - expense

	return Summary{
		TotalIncome:        income,
		TotalExpense:       expense,
		Balance:            balance,
		SavingsRate:        percentOf(balance, income),
		TransactionCount:   len(transactions),
		ExpensesByCategory: GroupByCategory(OfKind(transactions, Expense)),
	}
}

// MonthlyExpenses returns the expense total of each of the trailing months
// calendar months ending with now's month, oldest first.
func MonthlyExpenses(transactions []Transaction, now time.Time, months int) []MonthlyTotal {
	result := make([]MonthlyTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := MonthsAgo(now, i)
		result = append(result, MonthlyTotal{
			Month:  start.Format("Jan"),
			Start:  start,
			Amount: TotalByKind(FilterByMonth(transactions, start), Expense),
		})
	}
	return result
}

// percentOf returns part/total*100, or 0 when total is zero.
func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
