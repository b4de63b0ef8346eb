package main

import (
	"time"

	"finvision/internal/finance"
)

// User is an account owning transactions and budgets
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// signupRequest is the body of POST /api/auth/signup
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the body of POST /api/auth/login
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// transactionRequest is the body of POST /api/transactions
type transactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// budgetRequest is the body of POST /api/budgets
type budgetRequest struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Period   string  `json:"period"`
}

// budgetUpdateRequest is the body of PUT /api/budgets
type budgetUpdateRequest struct {
	ID    string  `json:"id"`
	Limit float64 `json:"limit"`
}

// transactionFilter narrows a transaction listing; zero fields match all
type transactionFilter struct {
	Type     finance.Kind
	Category string
	Start    time.Time
	End      time.Time
}

func (f transactionFilter) empty() bool {
	return f.Type == "" && f.Category == "" && f.Start.IsZero() && f.End.IsZero()
}

// CategoryOption is a recommended category with its chart color
type CategoryOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Analytics contains the dashboard figures for one month
type Analytics struct {
	Month           string                 `json:"month"`
	Summary         finance.Summary        `json:"summary"`
	Budgets         []finance.BudgetUsage  `json:"budgets"`
	MonthlyExpenses []finance.MonthlyTotal `json:"monthlyExpenses"`
	Currency        string                 `json:"currency"`
}

// InsightsReport contains everything the insights page shows
type InsightsReport struct {
	Insights      []finance.Insight         `json:"insights"`
	Predictions   []finance.SpendingPattern `json:"predictions"`
	SpendingTrend []finance.MonthlyTotal    `json:"spendingTrend"`
}
