package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finvision/internal/finance"
)

func TestRebind(t *testing.T) {
	query := `SELECT * FROM budgets WHERE user_id = $1 AND category = $2 AND period = $3`

	pg := &store{driver: driverPostgres}
	assert.Equal(t, query, pg.q(query))

	lite := &store{driver: driverSQLite}
	assert.Equal(t, `SELECT * FROM budgets WHERE user_id = ? AND category = ? AND period = ?`, lite.q(query))
}

func TestMigrationsAreRepeatable(t *testing.T) {
	cfg := testConfig(t)

	version, err := runMigrations(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	version, err = runMigrations(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestSQLiteCreatesDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "nested", "finvision.db")

	_, err := runMigrations(cfg)
	require.NoError(t, err)
	assert.FileExists(t, cfg.SQLitePath)

	other := filepath.Join(t.TempDir(), "fresh", "app.db")
	db, err := openSQLite(other)
	require.NoError(t, err)
	defer db.Close()
	assert.DirExists(t, filepath.Dir(other))
}

func TestStoreUsers(t *testing.T) {
	st := newTestStore(t, testConfig(t))
	ctx := context.Background()

	u := User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "hash"}
	require.NoError(t, st.CreateUser(ctx, &u))
	assert.NotEmpty(t, u.ID)

	got, err := st.UserByEmail(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = st.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, errNotFound)

	dup := User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, st.CreateUser(ctx, &dup), errConflict)
}

func TestStoreTransactionsAndBudgets(t *testing.T) {
	st := newTestStore(t, testConfig(t))
	ctx := context.Background()

	u := User{Name: "Meera", Email: "meera@example.com", PasswordHash: "hash"}
	require.NoError(t, st.CreateUser(ctx, &u))

	ist := time.FixedZone("IST", 5*3600+1800)
	tx := finance.Transaction{
		Type:        finance.Expense,
		Amount:      499.99,
		Category:    "Shopping",
		Description: "Headphones",
		Date:        time.Date(2025, 11, 1, 1, 0, 0, 0, ist),
		UserID:      u.ID,
	}
	require.NoError(t, st.CreateTransaction(ctx, &tx))

	got, err := st.TransactionByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, 499.99, got.Amount)
	assert.Equal(t, finance.Expense, got.Type)
	assert.True(t, got.Date.Equal(tx.Date), "stored %v, got %v", tx.Date, got.Date)

	// 01:00 IST on Nov 1 is still October in UTC.
	list, err := st.ListTransactions(ctx, u.ID, transactionFilter{End: time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC)})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	count, err := st.CountTransactions(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, st.DeleteTransaction(ctx, tx.ID))
	assert.ErrorIs(t, st.DeleteTransaction(ctx, tx.ID), errNotFound)

	b := finance.Budget{Category: "Shopping", Limit: 2000, Period: finance.Monthly, UserID: u.ID}
	require.NoError(t, st.CreateBudget(ctx, &b))

	dup := finance.Budget{Category: "Shopping", Limit: 3000, Period: finance.Monthly, UserID: u.ID}
	assert.ErrorIs(t, st.CreateBudget(ctx, &dup), errConflict)

	found, err := st.FindBudget(ctx, u.ID, "Shopping", finance.Monthly)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	_, err = st.FindBudget(ctx, u.ID, "Shopping", finance.Weekly)
	assert.ErrorIs(t, err, errNotFound)

	updated, err := st.UpdateBudgetLimit(ctx, b.ID, 2500)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.Limit)

	_, err = st.UpdateBudgetLimit(ctx, "missing", 1)
	assert.ErrorIs(t, err, errNotFound)

	require.NoError(t, st.DeleteBudget(ctx, b.ID))
	budgets, err := st.ListBudgets(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, budgets)
	assert.Empty(t, budgets)
}
