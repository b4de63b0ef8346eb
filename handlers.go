package main

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"finvision/internal/finance"
)

const (
	trendMonths        = 6
	insightTrendMonths = 3
	monthLayout        = "2006-01"
)

// server holds the dependencies shared by every handler.
type server struct {
	cfg       *Config
	store     *store
	cache     *transactionCache
	formatter *finance.Formatter
	sessions  *sessionManager
	logger    *slog.Logger
	now       func() time.Time
}

func newServer(cfg *Config, st *store, cache *transactionCache, formatter *finance.Formatter, logger *slog.Logger) *server {
	return &server{
		cfg:       cfg,
		store:     st,
		cache:     cache,
		formatter: formatter,
		sessions:  newSessionManager(cfg.JWTSecret, cfg.SessionTTL, cfg.Production()),
		logger:    logger.With("component", "api"),
		now:       time.Now,
	}
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 0 || slices.Contains(s.cfg.CORSOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/health", s.healthCheck)

	api := r.Group("/api")
	api.GET("/health", s.healthCheck)
	api.GET("/categories", s.getCategories)

	auth := api.Group("/auth")
	auth.POST("/signup", s.signup)
	auth.POST("/login", s.login)
	auth.POST("/logout", s.logout)
	auth.GET("/me", s.sessions.requireSession(), s.me)

	protected := api.Group("", s.sessions.requireSession())
	protected.GET("/transactions", s.getTransactions)
	protected.POST("/transactions", s.addTransaction)
	protected.DELETE("/transactions", s.deleteTransaction)
	protected.DELETE("/transactions/:id", s.deleteTransaction)

	protected.GET("/budgets", s.getBudgets)
	protected.POST("/budgets", s.addBudget)
	protected.PUT("/budgets", s.updateBudget)
	protected.DELETE("/budgets", s.deleteBudget)
	protected.DELETE("/budgets/:id", s.deleteBudget)

	protected.GET("/analytics", s.getAnalytics)
	protected.GET("/insights", s.getInsights)

	return r
}

// fail maps service errors to a status code and a JSON error body.
func (s *server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, errConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case errors.Is(err, errUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		_ = c.Error(err)
		s.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// healthCheck handles the health check endpoint
func (s *server) healthCheck(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finvision",
	})
}

// Auth

func (s *server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		badRequest(c, "Name, email and password are required")
		return
	}
	if len(req.Password) < minPasswordSize {
		badRequest(c, "Password must be at least 6 characters")
		return
	}

	ctx := c.Request.Context()
	if _, err := s.store.UserByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	} else if !errors.Is(err, errNotFound) {
		s.fail(c, err)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	user := User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, errConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		s.fail(c, err)
		return
	}

	if !s.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (s *server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		badRequest(c, "Email and password are required")
		return
	}

	user, err := s.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, errNotFound) {
		s.fail(c, err)
		return
	}
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !s.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *server) startSession(c *gin.Context, user User) bool {
	token, err := s.sessions.issue(user)
	if err != nil {
		s.fail(c, err)
		return false
	}
	s.sessions.setCookie(c, token)
	return true
}

func (s *server) logout(c *gin.Context) {
	s.sessions.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *server) me(c *gin.Context) {
	user, err := s.store.UserByID(c.Request.Context(), currentUserID(c))
	if errors.Is(err, errNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Transactions

// transactionsFor returns the user's full transaction list, served from the
// cache when possible.
func (s *server) transactionsFor(c *gin.Context, userID string) ([]finance.Transaction, error) {
	ctx := c.Request.Context()
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	transactions, err := s.store.ListTransactions(ctx, userID, transactionFilter{})
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userID, transactions); err != nil {
		s.logger.Warn("Failed to cache transactions", "user_id", userID, "error", err)
	}
	return transactions, nil
}

func (s *server) invalidate(c *gin.Context, userID string) {
	if err := s.cache.Invalidate(c.Request.Context(), userID); err != nil {
		s.logger.Warn("Failed to invalidate transaction cache", "user_id", userID, "error", err)
	}
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. A plain
// date is midnight in loc, so it stays on that calendar day when bucketed
// by month in loc.
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseEndDate is parseDate with a plain date covering its whole day.
func parseEndDate(value string, loc *time.Location) (time.Time, bool) {
	t, ok := parseDate(value, loc)
	if ok && len(value) == len(time.DateOnly) {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, ok
}

func (s *server) getTransactions(c *gin.Context) {
	var f transactionFilter
	if v := c.Query("type"); v != "" {
		kind, ok := finance.ParseKind(v)
		if !ok {
			badRequest(c, "Invalid transaction type")
			return
		}
		f.Type = kind
	}
	f.Category = strings.TrimSpace(c.Query("category"))
	loc := s.now().Location()
	for _, p := range []struct {
		param string
		parse func(string, *time.Location) (time.Time, bool)
		dst   *time.Time
	}{{"startDate", parseDate, &f.Start}, {"endDate", parseEndDate, &f.End}} {
		v := c.Query(p.param)
		if v == "" {
			continue
		}
		t, ok := p.parse(v, loc)
		if !ok {
			badRequest(c, "Invalid "+p.param)
			return
		}
		*p.dst = t
	}

	userID := currentUserID(c)
	var (
		transactions []finance.Transaction
		err          error
	)
	if f.empty() {
		transactions, err = s.transactionsFor(c, userID)
	} else {
		transactions, err = s.store.ListTransactions(c.Request.Context(), userID, f)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// addTransaction creates a new transaction
func (s *server) addTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	if req.Type == "" || req.Category == "" || req.Description == "" || req.Date == "" {
		badRequest(c, "Missing required fields")
		return
	}
	kind, ok := finance.ParseKind(req.Type)
	if !ok {
		badRequest(c, "Invalid transaction type")
		return
	}
	if req.Amount <= 0 {
		badRequest(c, "Amount must be positive")
		return
	}
	date, ok := parseDate(req.Date, s.now().Location())
	if !ok {
		badRequest(c, "Invalid date")
		return
	}

	userID := currentUserID(c)
	t := finance.Transaction{
		Type:        kind,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		UserID:      userID,
	}
	if err := s.store.CreateTransaction(c.Request.Context(), &t); err != nil {
		s.fail(c, err)
		return
	}
	s.invalidate(c, userID)

	c.JSON(http.StatusCreated, gin.H{"transaction": t})
}

// deleteTransaction removes a transaction owned by the session user
func (s *server) deleteTransaction(c *gin.Context) {
	id := idParam(c)
	if id == "" {
		badRequest(c, "Transaction ID required")
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	t, err := s.store.TransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		s.fail(c, err)
		return
	}
	if t.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		s.fail(c, err)
		return
	}
	s.invalidate(c, userID)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// idParam reads the id from the path or the ?id= query.
func idParam(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return c.Query("id")
}

// Budgets

func (s *server) getBudgets(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	transactions, err := s.transactionsFor(c, userID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": finance.WithUtilization(budgets, transactions, s.now())})
}

func (s *server) addBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" || req.Period == "" {
		badRequest(c, "Missing required fields")
		return
	}
	if req.Limit <= 0 {
		badRequest(c, "Limit must be positive")
		return
	}
	period, ok := finance.ParsePeriod(req.Period)
	if !ok {
		badRequest(c, "Invalid period")
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	if _, err := s.store.FindBudget(ctx, userID, req.Category, period); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Budget already exists for this category and period"})
		return
	} else if !errors.Is(err, errNotFound) {
		s.fail(c, err)
		return
	}

	b := finance.Budget{Category: req.Category, Limit: req.Limit, Period: period, UserID: userID}
	if err := s.store.CreateBudget(ctx, &b); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": b})
}

func (s *server) updateBudget(c *gin.Context) {
	var req budgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.ID == "" {
		badRequest(c, "Budget ID required")
		return
	}
	if req.Limit <= 0 {
		badRequest(c, "Limit must be positive")
		return
	}

	ctx := c.Request.Context()
	if !s.ownsBudget(c, req.ID) {
		return
	}
	b, err := s.store.UpdateBudgetLimit(ctx, req.ID, req.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": b})
}

func (s *server) deleteBudget(c *gin.Context) {
	id := idParam(c)
	if id == "" {
		badRequest(c, "Budget ID required")
		return
	}
	if !s.ownsBudget(c, id) {
		return
	}
	if err := s.store.DeleteBudget(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

// ownsBudget writes a 404 or 403 and reports false unless the session user
// owns the budget.
func (s *server) ownsBudget(c *gin.Context, id string) bool {
	b, err := s.store.BudgetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget not found"})
			return false
		}
		s.fail(c, err)
		return false
	}
	if b.UserID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}

// getCategories lists the recommended categories with their chart colors
func (s *server) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"expense": categoryOptions(finance.ExpenseCategories),
		"income":  categoryOptions(finance.IncomeCategories),
	})
}

func categoryOptions(names []string) []CategoryOption {
	options := make([]CategoryOption, 0, len(names))
	for _, name := range names {
		options = append(options, CategoryOption{Name: name, Color: finance.ColorFor(name)})
	}
	return options
}

// Analytics

// getAnalytics computes the dashboard for the current month, or for the
// month given as ?month=YYYY-MM.
func (s *server) getAnalytics(c *gin.Context) {
	ref := s.now()
	if v := c.Query("month"); v != "" {
		month, err := time.ParseInLocation(monthLayout, v, ref.Location())
		if err != nil {
			badRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		// Keep the reference inside the requested month.
		if start, _ := finance.MonthBounds(ref); !month.Equal(start) {
			_, end := finance.MonthBounds(month)
			ref = end
		}
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)
	transactions, err := s.transactionsFor(c, userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, Analytics{
		Month:           ref.Format(monthLayout),
		Summary:         finance.Summarize(finance.FilterByMonth(transactions, ref)),
		Budgets:         finance.WithUtilization(budgets, transactions, ref),
		MonthlyExpenses: finance.MonthlyExpenses(transactions, ref, trendMonths),
		Currency:        s.formatter.Currency(),
	})
}

func (s *server) getInsights(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	transactions, err := s.transactionsFor(c, userID)
	if err != nil {
		s.fail(c, err)
		return
	}
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		s.fail(c, err)
		return
	}

	now := s.now()
	predictions := finance.PredictSpending(transactions, now)
	insights := finance.GenerateInsights(transactions, budgets, now, s.formatter)
	insights = append(insights, finance.PredictionInsights(predictions, s.formatter)...)

	c.JSON(http.StatusOK, InsightsReport{
		Insights:      insights,
		Predictions:   predictions,
		SpendingTrend: finance.MonthlyExpenses(transactions, now, insightTrendMonths),
	})
}
