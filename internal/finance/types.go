// Package finance holds the pure aggregation, budget, insight and trend
// functions behind the dashboard and insights endpoints.
//
// Inputs are assumed to be validated by the caller: amounts are positive,
// types and periods are one of the declared constants and dates are set.
// Nothing here re-validates, so bad input produces bad output rather than
// an error.
package finance

import (
	"strings"
	"time"
)

// Kind is the direction of a transaction.
type Kind string

const (
	Income  Kind = "INCOME"
	Expense Kind = "EXPENSE"
)

// Period is the recurrence window of a budget.
type Period string

const (
	Weekly  Period = "WEEKLY"
	Monthly Period = "MONTHLY"
	Yearly  Period = "YEARLY"
)

// Transaction is a single income or expense record.
type Transaction struct {
	ID          string    `json:"id"`
	Type        Kind      `json:"type"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	UserID      string    `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Budget is a spending limit for one category over a period.
type Budget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Period   Period  `json:"period"`
	UserID   string  `json:"userId,omitempty"`
}

// BudgetUsage is a budget together with the amount spent in its window.
type BudgetUsage struct {
	Budget
	Spent float64 `json:"spent"`
}

// CategoryData is one slice of a category breakdown.
type CategoryData struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

type InsightType string

const (
	InsightWarning    InsightType = "warning"
	InsightInfo       InsightType = "info"
	InsightSuccess    InsightType = "success"
	InsightPrediction InsightType = "prediction"
)

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Insight is an advisory message derived from the current data. Insights
// are regenerated on every request and never stored.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category,omitempty"`
	Impact      Impact      `json:"impact"`
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// SpendingPattern is the 3-month trend of one expense category.
type SpendingPattern struct {
	Category        string  `json:"category"`
	Trend           Trend   `json:"trend"`
	AverageSpending float64 `json:"averageSpending"`
	Prediction      float64 `json:"prediction"`
}

// Summary contains the headline figures of a dashboard.
type Summary struct {
	TotalIncome        float64        `json:"totalIncome"`
	TotalExpense       float64        `json:"totalExpense"`
	Balance            float64        `json:"balance"`
	SavingsRate        float64        `json:"savingsRate"`
	TransactionCount   int            `json:"transactionCount"`
	ExpensesByCategory []CategoryData `json:"expensesByCategory"`
}

// MonthlyTotal is one point of the monthly expense series.
type MonthlyTotal struct {
	Month  string    `json:"month"`
	Start  time.Time `json:"start"`
	Amount float64   `json:"amount"`
}

// ExpenseCategories is the recommended set of expense categories.
var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Groceries",
	"Other",
}

// IncomeCategories is the recommended set of income categories.
var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Investment",
	"Business",
	"Gift",
	"Other",
}

// ParseKind maps a case-insensitive string to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case Income:
		return Income, true
	case Expense:
		return Expense, true
	}
	return "", false
}

// ParsePeriod maps a case-insensitive string to a Period.
func ParsePeriod(s string) (Period, bool) {
	switch Period(strings.ToUpper(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, true
	case Monthly:
		return Monthly, true
	case Yearly:
		return Yearly, true
	}
	return "", false
}
