package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"chitieu/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxUploadBytes  = 5 * 1024 * 1024
)

// txFilter is the shared filter set of the list, stats and export endpoints.
type txFilter struct {
	Type      string
	Category  string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

type listQuery struct {
	txFilter
	Sort  string // SQL order expression, whitelisted
	Page  int
	Limit int
}

// parseDay accepts a plain calendar date or a full RFC3339 timestamp.
func parseDay(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// sortExpr maps the API sort key to a SQL order expression. Unknown keys
// fall back to the default of newest first.
func sortExpr(key string) string {
	switch key {
	case "date":
		return "date ASC"
	case "-date":
		return "date DESC"
	case "amount":
		return "amount ASC"
	case "-amount":
		return "amount DESC"
	case "createdAt":
		return "created_at ASC"
	case "-createdAt":
		return "created_at DESC"
	default:
		return "date DESC"
	}
}

func parseTxFilter(c *gin.Context) txFilter {
	f := txFilter{
		Type:     c.Query("type"),
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if f.Type != models.TypeIncome && f.Type != models.TypeExpense {
		f.Type = ""
	}
	if t, ok := parseDay(c.Query("startDate")); ok {
		f.StartDate = &t
	}
	if t, ok := parseDay(c.Query("endDate")); ok {
		f.EndDate = &t
	}
	return f
}

func parseListQuery(c *gin.Context) listQuery {
	q := listQuery{txFilter: parseTxFilter(c), Sort: sortExpr(c.Query("sort"))}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	if q.Page <= 0 {
		q.Page = 1
	}
	q.Limit, _ = strconv.Atoi(c.Query("limit"))
	switch {
	case q.Limit > maxPageSize:
		q.Limit = maxPageSize
	case q.Limit <= 0:
		q.Limit = defaultPageSize
	}
	return q
}

// applyTxFilters scopes a transactions query to one user plus the optional
// filter set. The end date is inclusive: the range extends to the next day.
func applyTxFilters(q *gorm.DB, userID uint, f txFilter) *gorm.DB {
	q = q.Where("user_id = ?", userID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date < ?", f.EndDate.AddDate(0, 0, 1))
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}
	return q
}

type createTxReq struct {
	Type        string           `json:"type" binding:"required,oneof=income expense"`
	Category    string           `json:"category" binding:"required,max=100"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"required,max=200"`
	Date        string           `json:"date"`
	Tags        []string         `json:"tags"`
}

func createTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	var req createTxReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "validation failed",
			"errors":  []FieldError{{Field: "amount", Message: "must be zero or positive"}},
		})
		return
	}
	tx := models.Transaction{
		UserID:      user.ID,
		Type:        req.Type,
		Category:    strings.TrimSpace(req.Category),
		Amount:      *req.Amount,
		Description: strings.TrimSpace(req.Description),
		Tags:        req.Tags,
		Date:        time.Now(),
	}
	if req.Date != "" {
		t, ok := parseDay(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "validation failed",
				"errors":  []FieldError{{Field: "date", Message: "must be a calendar date (YYYY-MM-DD)"}},
			})
			return
		}
		tx.Date = t
	}
	if err := db.Create(&tx).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "transaction created", "data": tx})
}

func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	lq := parseListQuery(c)

	var total int64
	base := applyTxFilters(db.Model(&models.Transaction{}), user.ID, lq.txFilter)
	if err := base.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}

	var items []models.Transaction
	err := base.
		Order(lq.Sort).Order("id DESC").
		Offset((lq.Page - 1) * lq.Limit).Limit(lq.Limit).
		Find(&items).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "query failed")
		return
	}
	if items == nil {
		items = make([]models.Transaction, 0)
	}
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(lq.Limit)))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"total":   total,
		"page":    lq.Page,
		"pages":   pages,
		"data":    items,
	})
}

// findOwnedTransaction loads a transaction scoped to its owner. Foreign ids
// surface as not-found so record existence never leaks across users.
func findOwnedTransaction(c *gin.Context, userID uint, preloadAttachments bool) (*models.Transaction, bool) {
	q := db.Where("id = ? AND user_id = ?", c.Param("id"), userID)
	if preloadAttachments {
		q = q.Preload("Attachments")
	}
	var tx models.Transaction
	if err := q.First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "transaction not found")
		} else {
			respondError(c, http.StatusInternalServerError, "query failed")
		}
		return nil, false
	}
	return &tx, true
}

func getTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tx, ok := findOwnedTransaction(c, user.ID, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tx})
}

type updateTxReq struct {
	Type        *string          `json:"type" binding:"omitempty,oneof=income expense"`
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description" binding:"omitempty,min=1,max=200"`
	Date        *string          `json:"date"`
	Tags        *[]string        `json:"tags"`
}

func updateTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tx, ok := findOwnedTransaction(c, user.ID, false)
	if !ok {
		return
	}
	var req updateTxReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "validation failed",
			"errors":  []FieldError{{Field: "amount", Message: "must be zero or positive"}},
		})
		return
	}
	if req.Type != nil {
		tx.Type = *req.Type
	}
	if req.Category != nil {
		tx.Category = strings.TrimSpace(*req.Category)
	}
	if req.Amount != nil {
		tx.Amount = *req.Amount
	}
	if req.Description != nil {
		tx.Description = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		t, ok := parseDay(*req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "validation failed",
				"errors":  []FieldError{{Field: "date", Message: "must be a calendar date (YYYY-MM-DD)"}},
			})
			return
		}
		tx.Date = t
	}
	if req.Tags != nil {
		tx.Tags = *req.Tags
	}
	if err := db.Save(tx).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "transaction updated", "data": tx})
}

func deleteTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tx, ok := findOwnedTransaction(c, user.ID, true)
	if !ok {
		return
	}
	if err := db.Select("Attachments").Delete(tx).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	// attachment files are best-effort cleanup; rows are already gone
	for _, att := range tx.Attachments {
		_ = os.Remove(attachmentDiskPath(user.ID, att))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "transaction deleted"})
}

// storedAttachmentName builds a unique on-disk name so repeated uploads of
// the same filename never overwrite or share a file.
func storedAttachmentName(txID uint, original string) string {
	return fmt.Sprintf("%d-%d-%s", txID, time.Now().UnixNano(), filepath.Base(original))
}

// attachmentDiskPath resolves the stored file from the public URL path, which
// carries the unique on-disk name.
func attachmentDiskPath(userID uint, att models.Attachment) string {
	return filepath.Join(uploadBaseDir(), strconv.FormatUint(uint64(userID), 10), filepath.Base(att.StorePath))
}

// uploadAttachmentHandler stores a multipart file against one transaction.
func uploadAttachmentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tx, ok := findOwnedTransaction(c, user.ID, false)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file missing")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusBadRequest, "file too large (max 5MB)")
		return
	}
	name := filepath.Base(file.Filename)
	stored := storedAttachmentName(tx.ID, name)
	dir := filepath.Join(uploadBaseDir(), strconv.FormatUint(uint64(user.ID), 10))
	if err := os.MkdirAll(dir, 0755); err != nil {
		respondError(c, http.StatusInternalServerError, "mkdir failed")
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(dir, stored)); err != nil {
		respondError(c, http.StatusInternalServerError, "save failed")
		return
	}
	att := models.Attachment{
		TransactionID: tx.ID,
		FileName:      name,
		StorePath:     fmt.Sprintf("/uploads/%d/%s", user.ID, stored),
		ContentType:   file.Header.Get("Content-Type"),
		Size:          file.Size,
	}
	if err := db.Create(&att).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "db save failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": att})
}

func deleteAttachmentHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tx, ok := findOwnedTransaction(c, user.ID, false)
	if !ok {
		return
	}
	var att models.Attachment
	if err := db.Where("id = ? AND transaction_id = ?", c.Param("attID"), tx.ID).First(&att).Error; err != nil {
		respondError(c, http.StatusNotFound, "attachment not found")
		return
	}
	if err := db.Delete(&att).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete attachment")
		return
	}
	_ = os.Remove(attachmentDiskPath(user.ID, att))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "attachment deleted"})
}
