package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"finvision/internal/finance"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("already exists")
)

var placeholderRe = regexp.MustCompile(`\$\d+`)

// store persists users, transactions and budgets. Queries are written with
// PostgreSQL placeholders and rebound for SQLite.
type store struct {
	db     *sql.DB
	driver string
}

func newStore(db *sql.DB, driver string) *store {
	return &store{db: db, driver: driver}
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// q rebinds $n placeholders to ? for SQLite. Every query numbers its
// placeholders in argument order.
func (s *store) q(query string) string {
	if s.driver == driverSQLite {
		return placeholderRe.ReplaceAllString(query, "?")
	}
	return query
}

// translateError maps driver errors onto errNotFound and errConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", errConflict, pgErr.ConstraintName)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")) {
			return fmt.Errorf("%w: %s", errConflict, liteErr.Error())
		}
	}
	return err
}

// Ids are UUIDs; anything else cannot match a row and would fail to
// cast on PostgreSQL.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// Users

func (s *store) CreateUser(ctx context.Context, u *User) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`), u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", translateError(err))
	}
	return nil
}

func (s *store) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, s.q(`
		SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1
	`), email))
}

func (s *store) UserByID(ctx context.Context, id string) (User, error) {
	if !validID(id) {
		return User{}, errNotFound
	}
	return s.scanUser(s.db.QueryRowContext(ctx, s.q(`
		SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1
	`), id))
}

func (s *store) scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return User{}, fmt.Errorf("scan user: %w", translateError(err))
	}
	return u, nil
}

// Transactions

const transactionColumns = `id, user_id, type, amount, category, description, date, created_at`

// ListTransactions returns a user's transactions, newest first.
func (s *store) ListTransactions(ctx context.Context, userID string, f transactionFilter) ([]finance.Transaction, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Type != "" {
		add("type = $%d", string(f.Type))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if !f.Start.IsZero() {
		add("date >= $%d", f.Start.UTC())
	}
	if !f.End.IsZero() {
		add("date <= $%d", f.End.UTC())
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	// ensure empty array ([]) instead of null when no rows
	transactions := make([]finance.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (finance.Transaction, error) {
	var (
		t    finance.Transaction
		kind string
	)
	err := row.Scan(&t.ID, &t.UserID, &kind, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("scan transaction: %w", translateError(err))
	}
	t.Type = finance.Kind(kind)
	return t, nil
}

func (s *store) CreateTransaction(ctx context.Context, t *finance.Transaction) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	t.Date = t.Date.UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO transactions (id, user_id, type, amount, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`), t.ID, t.UserID, string(t.Type), t.Amount, t.Category, t.Description, t.Date, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", translateError(err))
	}
	return nil
}

func (s *store) TransactionByID(ctx context.Context, id string) (finance.Transaction, error) {
	if !validID(id) {
		return finance.Transaction{}, errNotFound
	}
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`), id)
	return scanTransaction(row)
}

func (s *store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", id)
}

func (s *store) CountTransactions(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM transactions WHERE user_id = $1`), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Budgets

const budgetColumns = `id, user_id, category, limit_amount, period`

// ListBudgets returns a user's budgets ordered by category.
func (s *store) ListBudgets(ctx context.Context, userID string) ([]finance.Budget, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY category, period
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]finance.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(row scanner) (finance.Budget, error) {
	var (
		b      finance.Budget
		period string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &period); err != nil {
		return finance.Budget{}, fmt.Errorf("scan budget: %w", translateError(err))
	}
	b.Period = finance.Period(period)
	return b, nil
}

func (s *store) BudgetByID(ctx context.Context, id string) (finance.Budget, error) {
	if !validID(id) {
		return finance.Budget{}, errNotFound
	}
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+budgetColumns+` FROM budgets WHERE id = $1`), id)
	return scanBudget(row)
}

// FindBudget looks a budget up by its unique (user, category, period) key.
func (s *store) FindBudget(ctx context.Context, userID, category string, period finance.Period) (finance.Budget, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 AND category = $2 AND period = $3
	`), userID, category, string(period))
	return scanBudget(row)
}

func (s *store) CreateBudget(ctx context.Context, b *finance.Budget) error {
	b.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO budgets (id, user_id, category, limit_amount, period, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`), b.ID, b.UserID, b.Category, b.Limit, string(b.Period), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert budget: %w", translateError(err))
	}
	return nil
}

func (s *store) UpdateBudgetLimit(ctx context.Context, id string, limit float64) (finance.Budget, error) {
	if !validID(id) {
		return finance.Budget{}, errNotFound
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE budgets SET limit_amount = $1 WHERE id = $2`), limit, id)
	if err != nil {
		return finance.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return finance.Budget{}, errNotFound
	}
	return s.BudgetByID(ctx, id)
}

func (s *store) DeleteBudget(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "budgets", id)
}

func (s *store) deleteByID(ctx context.Context, table, id string) error {
	if !validID(id) {
		return errNotFound
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM `+table+` WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errNotFound
	}
	return nil
}
