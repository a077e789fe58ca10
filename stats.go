package main

import (
	"net/http"
	"strconv"
	"time"

	"chitieu/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// typeAgg is one SUM/COUNT group keyed by transaction type.
type typeAgg struct {
	Type  string
	Total decimal.Decimal
	Count int64
}

// Summary always reports both kinds; an absent group counts as zero.
type Summary struct {
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	Balance           decimal.Decimal `json:"balance"`
	TotalTransactions int64           `json:"totalTransactions"`
}

// buildSummary reduces per-type groups into the summary view.
func buildSummary(rows []typeAgg) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			s.Income = s.Income.Add(r.Total)
		case models.TypeExpense:
			s.Expense = s.Expense.Add(r.Total)
		}
		s.TotalTransactions += r.Count
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// querySummary runs the per-type aggregate for one user and filter set.
func querySummary(userID uint, f txFilter) (Summary, error) {
	var rows []typeAgg
	err := applyTxFilters(db.Model(&models.Transaction{}), userID, f).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(rows), nil
}

func summaryStatsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	sum, err := querySummary(user.ID, parseTxFilter(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sum})
}

// categoryAgg is one SUM/COUNT group keyed by (category, type).
type categoryAgg struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

func queryByCategory(userID uint, f txFilter) ([]categoryAgg, error) {
	var rows []categoryAgg
	// category name breaks amount ties so the order stays deterministic
	err := applyTxFilters(db.Model(&models.Transaction{}), userID, f).
		Select("category, type, SUM(amount) AS total, COUNT(*) AS count").
		Group("category, type").
		Order("total DESC, category ASC, type ASC").
		Scan(&rows).Error
	if rows == nil {
		rows = make([]categoryAgg, 0)
	}
	return rows, err
}

func categoryStatsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	rows, err := queryByCategory(user.ID, parseTxFilter(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// monthAgg is one SUM/COUNT group keyed by (calendar month, type).
type monthAgg struct {
	Month int             `json:"month"`
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// monthlyStatsHandler returns the per-month breakdown for one year. The
// result is sparse: months without transactions are omitted and callers
// zero-fill when rendering a full 12-month view.
func monthlyStatsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year <= 0 {
		year = time.Now().Year()
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var rows []monthAgg
	err = db.Model(&models.Transaction{}).
		Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).
		Select("EXTRACT(MONTH FROM date)::int AS month, type, SUM(amount) AS total, COUNT(*) AS count").
		Group("month, type").
		Order("month ASC, type ASC").
		Scan(&rows).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	if rows == nil {
		rows = make([]monthAgg, 0)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"year": year, "months": rows}})
}
