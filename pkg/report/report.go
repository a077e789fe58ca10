// Package report renders a user's queried transactions into downloadable
// documents. Exporters are pure: they write a complete PDF or XLSX for the
// data they are handed and never touch storage, so zero rows still produce
// a valid empty-state document.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds mirrored here so the package stays self-contained.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is one detail row of a report.
type Transaction struct {
	Date        time.Time
	Type        string
	Category    string
	Description string
	Amount      decimal.Decimal
}

// Summary is the aggregate block shown at the top of every report.
type Summary struct {
	Income            decimal.Decimal
	Expense           decimal.Decimal
	Balance           decimal.Decimal
	TotalTransactions int64
}

// CategoryTotal is one row of the per-category breakdown sheet.
type CategoryTotal struct {
	Category string
	Type     string
	Total    decimal.Decimal
	Count    int64
}

// Meta describes who the report is for and which date range it covers.
// Nil range bounds render as open ("all" / "now").
type Meta struct {
	UserName    string
	UserEmail   string
	StartDate   *time.Time
	EndDate     *time.Time
	GeneratedAt time.Time
}

// TypeLabel is the Vietnamese display label for a transaction type.
func TypeLabel(t string) string {
	if t == TypeIncome {
		return "Thu"
	}
	return "Chi"
}

func (m Meta) rangeLabel() string {
	from, to := "Tất cả", "Hiện tại"
	if m.StartDate != nil {
		from = m.StartDate.Format("02/01/2006")
	}
	if m.EndDate != nil {
		to = m.EndDate.Format("02/01/2006")
	}
	return from + " - " + to
}
