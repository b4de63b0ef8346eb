package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowStart(t *testing.T) {
	assert.Equal(t, refNow.AddDate(0, 0, -7), WindowStart(Weekly, refNow))
	assert.Equal(t, time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC), WindowStart(Monthly, refNow))
	assert.Equal(t, time.Date(2024, time.November, 20, 12, 0, 0, 0, time.UTC), WindowStart(Yearly, refNow))

	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 18, 30, 0, 0, time.UTC)
	}
	tests := []struct {
		name   string
		period Period
		now    time.Time
		want   time.Time
	}{
		{"month back from Mar 31", Monthly, at(2025, time.March, 31), at(2025, time.February, 28)},
		{"month back from Mar 31 in a leap year", Monthly, at(2024, time.March, 31), at(2024, time.February, 29)},
		{"month back from May 31", Monthly, at(2025, time.May, 31), at(2025, time.April, 30)},
		{"month back from Jan 31", Monthly, at(2025, time.January, 31), at(2024, time.December, 31)},
		{"month back from Feb 29", Monthly, at(2024, time.February, 29), at(2024, time.January, 29)},
		{"year back from Feb 29", Yearly, at(2024, time.February, 29), at(2023, time.February, 28)},
		{"year back from Mar 31", Yearly, at(2025, time.March, 31), at(2024, time.March, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowStart(tt.period, tt.now))
		})
	}
}

func TestWithUtilizationAtMonthEnd(t *testing.T) {
	now := time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
	budgets := []Budget{{ID: "m", Category: "Food", Limit: 1000, Period: Monthly}}
	ts := []Transaction{
		tx("1", Expense, 400, "Food", time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)),
		tx("2", Expense, 50, "Food", time.Date(2025, time.February, 28, 13, 0, 0, 0, time.UTC)),
		tx("3", Expense, 25, "Food", time.Date(2025, time.February, 28, 11, 0, 0, 0, time.UTC)),
	}

	got := WithUtilization(budgets, ts, now)
	require.Len(t, got, 1)
	assert.Equal(t, 450.0, got[0].Spent)
}

func TestWithUtilization(t *testing.T) {
	budgets := []Budget{
		{ID: "w", Category: "Food & Dining", Limit: 1000, Period: Weekly},
		{ID: "m", Category: "Food & Dining", Limit: 5000, Period: Monthly},
		{ID: "y", Category: "Food & Dining", Limit: 50000, Period: Yearly},
		{ID: "none", Category: "Travel", Limit: 2000, Period: Monthly},
	}
	ts := []Transaction{
		tx("1", Expense, 100, "Food & Dining", refNow.AddDate(0, 0, -2)),
		tx("2", Expense, 200, "Food & Dining", refNow.AddDate(0, 0, -20)),
		tx("3", Expense, 400, "Food & Dining", refNow.AddDate(0, -6, 0)),
		tx("4", Expense, 800, "Food & Dining", refNow.AddDate(-2, 0, 0)),
		tx("5", Income, 9999, "Food & Dining", refNow.AddDate(0, 0, -1)),
		tx("6", Expense, 50, "Food & Dining", refNow.Add(time.Hour)),
	}

	got := WithUtilization(budgets, ts, refNow)
	require.Len(t, got, 4)

	assert.Equal(t, 100.0, got[0].Spent)
	assert.Equal(t, 300.0, got[1].Spent)
	assert.Equal(t, 700.0, got[2].Spent)
	assert.Zero(t, got[3].Spent)
	assert.Equal(t, budgets[3], got[3].Budget)

	assert.InDelta(t, 6.0, got[1].Percentage(), 1e-9)
	assert.Equal(t, 4700.0, got[1].Remaining())

	t.Run("does not modify input", func(t *testing.T) {
		before := append([]Budget(nil), budgets...)
		WithUtilization(budgets, ts, refNow)
		assert.Equal(t, before, budgets)
	})

	t.Run("monotonic in matching expenses", func(t *testing.T) {
		more := append(append([]Transaction(nil), ts...), tx("7", Expense, 25, "Food & Dining", refNow.AddDate(0, 0, -1)))
		again := WithUtilization(budgets, more, refNow)
		for i := range got {
			assert.GreaterOrEqual(t, again[i].Spent, got[i].Spent)
		}
		assert.Equal(t, 125.0, again[0].Spent)
	})

	t.Run("zero limit percentage", func(t *testing.T) {
		assert.Zero(t, BudgetUsage{Budget: Budget{Limit: 0}, Spent: 10}.Percentage())
	})
}
