package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"time"

	"chitieu/models"
	"chitieu/pkg/report"

	"github.com/gin-gonic/gin"
)

const excelMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// fontDir holds the Roboto TTFs used for Vietnamese text in PDF exports.
func fontDir() string {
	if v := os.Getenv("FONT_DIR"); v != "" {
		return v
	}
	return "fonts"
}

// exportData loads everything a report needs: the filtered transactions
// (date descending) and their summary.
func exportData(userID uint, f txFilter) ([]models.Transaction, Summary, error) {
	var txs []models.Transaction
	err := applyTxFilters(db.Model(&models.Transaction{}), userID, f).
		Order("date DESC").Order("id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, Summary{}, err
	}
	sum, err := querySummary(userID, f)
	if err != nil {
		return nil, Summary{}, err
	}
	return txs, sum, nil
}

func reportMeta(user *models.User, f txFilter) report.Meta {
	return report.Meta{
		UserName:    user.Name,
		UserEmail:   user.Email,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		GeneratedAt: time.Now(),
	}
}

func reportRows(txs []models.Transaction) []report.Transaction {
	rows := make([]report.Transaction, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, report.Transaction{
			Date:        t.Date,
			Type:        t.Type,
			Category:    t.Category,
			Description: t.Description,
			Amount:      t.Amount,
		})
	}
	return rows
}

func reportSummary(sum Summary) report.Summary {
	return report.Summary{
		Income:            sum.Income,
		Expense:           sum.Expense,
		Balance:           sum.Balance,
		TotalTransactions: sum.TotalTransactions,
	}
}

func exportPDFHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	f := parseTxFilter(c)
	txs, sum, err := exportData(user.ID, f)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch data for export")
		return
	}

	// render to a buffer first so a failure degrades to a JSON error
	// instead of a truncated download
	var buf bytes.Buffer
	if err := report.PDF(&buf, reportMeta(user, f), reportSummary(sum), reportRows(txs), fontDir()); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render PDF")
		return
	}
	fileName := fmt.Sprintf("bao-cao-chi-tieu-%s.pdf", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func exportExcelHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	f := parseTxFilter(c)
	txs, sum, err := exportData(user.ID, f)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch data for export")
		return
	}
	cats, err := queryByCategory(user.ID, f)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch data for export")
		return
	}
	catRows := make([]report.CategoryTotal, 0, len(cats))
	for _, cs := range cats {
		catRows = append(catRows, report.CategoryTotal{Category: cs.Category, Type: cs.Type, Total: cs.Total, Count: cs.Count})
	}

	var buf bytes.Buffer
	if err := report.Excel(&buf, reportMeta(user, f), reportSummary(sum), reportRows(txs), catRows); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render Excel file")
		return
	}
	fileName := fmt.Sprintf("bao-cao-chi-tieu-%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, excelMIME, buf.Bytes())
}
