package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finvision/internal/finance"
)

const (
	demoName     = "Demo User"
	demoEmail    = "demo@finvision.app"
	demoPassword = "demo1234"
)

// seedDemoData creates the demo user and fills it with sample transactions
// and budgets positioned around now. Idempotent: it does nothing when the
// demo user already has transactions.
func seedDemoData(ctx context.Context, st *store, now time.Time, logger *slog.Logger) (User, error) {
	user, err := st.UserByEmail(ctx, demoEmail)
	switch {
	case errors.Is(err, errNotFound):
		hash, err := hashPassword(demoPassword)
		if err != nil {
			return User{}, err
		}
		user = User{Name: demoName, Email: demoEmail, PasswordHash: hash}
		if err := st.CreateUser(ctx, &user); err != nil {
			return User{}, fmt.Errorf("creating demo user: %w", err)
		}
	case err != nil:
		return User{}, fmt.Errorf("looking up demo user: %w", err)
	}

	count, err := st.CountTransactions(ctx, user.ID)
	if err != nil {
		return User{}, fmt.Errorf("checking transactions count: %w", err)
	}
	if count > 0 {
		logger.Info("Demo data already present, skipping", "email", demoEmail, "transactions", count)
		return user, nil
	}

	transactions, budgets := finance.SampleData(now)
	for i := range transactions {
		transactions[i].UserID = user.ID
		if err := st.CreateTransaction(ctx, &transactions[i]); err != nil {
			return User{}, fmt.Errorf("seeding demo transactions: %w", err)
		}
	}
	for i := range budgets {
		budgets[i].UserID = user.ID
		if err := st.CreateBudget(ctx, &budgets[i]); err != nil && !errors.Is(err, errConflict) {
			return User{}, fmt.Errorf("seeding demo budgets: %w", err)
		}
	}

	logger.Info("Demo data seeded", "email", demoEmail, "transactions", len(transactions), "budgets", len(budgets))
	return user, nil
}
