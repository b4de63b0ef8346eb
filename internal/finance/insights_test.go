package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oct(day int) time.Time {
	return time.Date(2025, time.October, day, 10, 0, 0, 0, time.UTC)
}

func findInsight(insights []Insight, id string) (Insight, bool) {
	for _, i := range insights {
		if i.ID == id {
			return i, true
		}
	}
	return Insight{}, false
}

func TestGenerateInsightsOverBudget(t *testing.T) {
	budgets := []Budget{{ID: "food", Category: "Food", Limit: 8000, Period: Monthly}}
	ts := []Transaction{
		tx("1", Expense, 5000, "Food", nov(3)),
		tx("2", Expense, 4000, "Food", nov(12)),
	}

	insights := GenerateInsights(ts, budgets, refNow, nil)

	got, ok := findInsight(insights, "budget-food")
	require.True(t, ok, "expected over-budget insight, got %+v", insights)
	assert.Equal(t, InsightWarning, got.Type)
	assert.Equal(t, ImpactHigh, got.Impact)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, "Budget Exceeded: Food", got.Title)
	assert.Contains(t, got.Description, "₹9,000")
	assert.Contains(t, got.Description, "₹8,000")

	_, warned := findInsight(insights, "budget-warning-food")
	assert.False(t, warned, "over-budget must not also warn about approaching the limit")
}

func TestGenerateInsightsApproachingLimit(t *testing.T) {
	budgets := []Budget{{ID: "travel", Category: "Travel", Limit: 1000, Period: Monthly}}

	insights := GenerateInsights([]Transaction{tx("1", Expense, 850, "Travel", nov(4))}, budgets, refNow, nil)

	got, ok := findInsight(insights, "budget-warning-travel")
	require.True(t, ok)
	assert.Equal(t, InsightWarning, got.Type)
	assert.Equal(t, ImpactMedium, got.Impact)
	assert.Contains(t, got.Description, "85%")

	t.Run("exactly 80% is not approaching", func(t *testing.T) {
		insights := GenerateInsights([]Transaction{tx("1", Expense, 800, "Travel", nov(4))}, budgets, refNow, nil)
		_, ok := findInsight(insights, "budget-warning-travel")
		assert.False(t, ok)
	})

	t.Run("previous month spending is ignored", func(t *testing.T) {
		insights := GenerateInsights([]Transaction{tx("1", Expense, 2000, "Travel", oct(4))}, budgets, refNow, nil)
		_, over := findInsight(insights, "budget-travel")
		_, near := findInsight(insights, "budget-warning-travel")
		assert.False(t, over)
		assert.False(t, near)
	})
}

func TestGenerateInsightsMonthOverMonth(t *testing.T) {
	cases := []struct {
		name      string
		last      float64
		this      float64
		wantID    string
		wantType  InsightType
		wantInDoc string
	}{
		{name: "exactly 20% up", last: 5000, this: 6000},
		{name: "exactly 20% down", last: 5000, this: 4000},
		{name: "increase", last: 5000, this: 6100, wantID: "spending-increase", wantType: InsightWarning, wantInDoc: "22%"},
		{name: "decrease", last: 5000, this: 3000, wantID: "spending-decrease", wantType: InsightSuccess, wantInDoc: "40%"},
		{name: "no spending last month", last: 0, this: 500},
		{name: "no spending at all", last: 0, this: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts []Transaction
			if tc.last > 0 {
				ts = append(ts, tx("last", Expense, tc.last, "Shopping", oct(10)))
			}
			if tc.this > 0 {
				ts = append(ts, tx("this", Expense, tc.this, "Shopping", nov(10)))
			}

			insights := GenerateInsights(ts, nil, refNow, nil)

			_, up := findInsight(insights, "spending-increase")
			_, down := findInsight(insights, "spending-decrease")
			if tc.wantID == "" {
				assert.False(t, up)
				assert.False(t, down)
				return
			}

			got, ok := findInsight(insights, tc.wantID)
			require.True(t, ok)
			assert.Equal(t, tc.wantType, got.Type)
			assert.Equal(t, ImpactHigh, got.Impact)
			assert.Contains(t, got.Description, tc.wantInDoc)
			assert.False(t, up && down)
		})
	}
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 20.0, PercentChange(5000, 6000), 1e-9)
	assert.InDelta(t, -50.0, PercentChange(200, 100), 1e-9)
	assert.Zero(t, PercentChange(0, 500))
	assert.Zero(t, PercentChange(0, 0))
}

func TestGenerateInsightsTopCategory(t *testing.T) {
	t.Run("largest category with its share", func(t *testing.T) {
		ts := []Transaction{
			tx("1", Expense, 100, "Travel", nov(1)),
			tx("2", Expense, 300, "Food & Dining", nov(2)),
			tx("3", Income, 10000, "Salary", nov(1)),
		}
		insights := GenerateInsights(ts, nil, refNow, nil)

		got, ok := findInsight(insights, "top-category-food-dining")
		require.True(t, ok)
		assert.Equal(t, InsightInfo, got.Type)
		assert.Equal(t, ImpactMedium, got.Impact)
		assert.Equal(t, "Food & Dining", got.Category)
		assert.Equal(t, "Food & Dining accounts for 75% of your expenses (₹300).", got.Description)
	})

	t.Run("ties go to the first category in input order", func(t *testing.T) {
		ts := []Transaction{
			tx("1", Expense, 200, "Shopping", nov(1)),
			tx("2", Expense, 200, "Travel", nov(2)),
		}
		insights := GenerateInsights(ts, nil, refNow, nil)
		_, ok := findInsight(insights, "top-category-shopping")
		assert.True(t, ok)

		reversed := GenerateInsights([]Transaction{ts[1], ts[0]}, nil, refNow, nil)
		_, ok = findInsight(reversed, "top-category-travel")
		assert.True(t, ok)
	})

	t.Run("no expenses no insight", func(t *testing.T) {
		insights := GenerateInsights([]Transaction{tx("1", Income, 100, "Salary", nov(1))}, nil, refNow, nil)
		assert.Empty(t, insights)
		assert.NotNil(t, insights)
	})
}

func TestGenerateInsightsDeterministic(t *testing.T) {
	ts, budgets := SampleData(refNow)
	ts = append(ts, tx("extra", Expense, 2000, "Entertainment", nov(18)))

	first := GenerateInsights(ts, budgets, refNow, nil)
	second := GenerateInsights(ts, budgets, refNow, nil)
	assert.Equal(t, first, second)
	require.NotEmpty(t, first)

	ids := make([]string, 0, len(first))
	for _, i := range first {
		ids = append(ids, i.ID)
	}
	assert.Equal(t, []string{"budget-b4", "spending-increase", "top-category-food-dining"}, ids)
}

func TestPredictionInsights(t *testing.T) {
	patterns := []SpendingPattern{
		{Category: "Rent", Trend: TrendIncreasing, AverageSpending: 1166.67, Prediction: 1283},
		{Category: "Travel", Trend: TrendStable, AverageSpending: 100, Prediction: 100},
	}

	got := PredictionInsights(patterns, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "prediction-rent", got[0].ID)
	assert.Equal(t, InsightPrediction, got[0].Type)
	assert.Equal(t, ImpactLow, got[0].Impact)
	assert.Contains(t, got[0].Description, "₹1,283")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "food-dining", Slug("Food & Dining"))
	assert.Equal(t, "bills-utilities", Slug("  Bills & Utilities "))
	assert.Equal(t, "other", Slug("Other"))
	assert.Equal(t, "", Slug("&&"))
}
