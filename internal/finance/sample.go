package finance

import "time"

// SampleData builds a fresh demo data set positioned relative to now: a
// month of income and expenses, a lighter previous month and six monthly
// budgets. Every call returns new slices.
func SampleData(now time.Time) ([]Transaction, []Budget) {
	this := MonthsAgo(now, 0)
	last := MonthsAgo(now, 1)
	day := func(month time.Time, d int) time.Time {
		return month.AddDate(0, 0, d-1)
	}

	transactions := []Transaction{
		{ID: "1", Type: Expense, Amount: 5000, Category: "Food & Dining", Description: "Groceries", Date: day(this, 5)},
		{ID: "2", Type: Expense, Amount: 2000, Category: "Transportation", Description: "Fuel", Date: day(this, 8)},
		{ID: "3", Type: Expense, Amount: 3500, Category: "Shopping", Description: "Clothing", Date: day(this, 10)},
		{ID: "4", Type: Expense, Amount: 1500, Category: "Entertainment", Description: "Movies & Dining", Date: day(this, 12)},
		{ID: "5", Type: Expense, Amount: 4000, Category: "Bills & Utilities", Description: "Electricity & Internet", Date: day(this, 1)},
		{ID: "6", Type: Expense, Amount: 2500, Category: "Healthcare", Description: "Medical checkup", Date: day(this, 7)},
		{ID: "7", Type: Income, Amount: 50000, Category: "Salary", Description: "Monthly salary", Date: day(this, 1)},
		{ID: "8", Type: Income, Amount: 10000, Category: "Freelance", Description: "Project work", Date: day(this, 15)},

		{ID: "9", Type: Expense, Amount: 4500, Category: "Food & Dining", Description: "Groceries", Date: day(last, 5)},
		{ID: "10", Type: Expense, Amount: 1800, Category: "Transportation", Description: "Fuel", Date: day(last, 8)},
		{ID: "11", Type: Expense, Amount: 2000, Category: "Shopping", Description: "Electronics", Date: day(last, 10)},
		{ID: "12", Type: Income, Amount: 50000, Category: "Salary", Description: "Monthly salary", Date: day(last, 1)},
	}

	budgets := []Budget{
		{ID: "b1", Category: "Food & Dining", Limit: 8000, Period: Monthly},
		{ID: "b2", Category: "Transportation", Limit: 3000, Period: Monthly},
		{ID: "b3", Category: "Shopping", Limit: 5000, Period: Monthly},
		{ID: "b4", Category: "Entertainment", Limit: 3000, Period: Monthly},
		{ID: "b5", Category: "Bills & Utilities", Limit: 5000, Period: Monthly},
		{ID: "b6", Category: "Healthcare", Limit: 4000, Period: Monthly},
	}

	return transactions, budgets
}
