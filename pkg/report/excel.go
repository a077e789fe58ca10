package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, matching the labels users see in the app.
const (
	SummarySheet  = "Tổng Quan"
	DetailSheet   = "Chi Tiết Giao Dịch"
	CategorySheet = "Theo Danh Mục"
)

// moneyFmt keeps currency columns numeric (sortable, summable) while
// displaying grouped thousands with the đồng suffix.
const moneyFmt = `#,##0 "đ"`

// Excel writes a three-sheet workbook to w: summary, full transaction
// detail with a sequential STT column, and the per-category breakdown.
func Excel(w io.Writer, meta Meta, sum Summary, txs []Transaction, cats []CategoryTotal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(CategorySheet); err != nil {
		return err
	}
	_ = f.SetDocProps(&excelize.DocProperties{Creator: meta.UserName})

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	numFmt := moneyFmt
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	// Sheet 1: summary
	if err := f.SetSheetRow(SummarySheet, "A1", &[]interface{}{"Chỉ số", "Giá trị"}); err != nil {
		return err
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle)
	summaryRows := []struct {
		label string
		value interface{}
	}{
		{"Tổng Thu Nhập", sum.Income.InexactFloat64()},
		{"Tổng Chi Tiêu", sum.Expense.InexactFloat64()},
		{"Số Dư", sum.Balance.InexactFloat64()},
		{"Tổng Giao Dịch", sum.TotalTransactions},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &[]interface{}{row.label, row.value}); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(SummarySheet, "B2", "B4", moneyStyle)
	_ = f.SetColWidth(SummarySheet, "A", "A", 30)
	_ = f.SetColWidth(SummarySheet, "B", "B", 20)

	// Sheet 2: full transaction detail
	detailHeader := []interface{}{"STT", "Ngày", "Loại", "Danh Mục", "Mô Tả", "Số Tiền"}
	if err := f.SetSheetRow(DetailSheet, "A1", &detailHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(DetailSheet, "A1", "F1", headerStyle)
	for i, t := range txs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			i + 1,
			t.Date.Format("02/01/2006"),
			TypeLabel(t.Type),
			t.Category,
			t.Description,
			t.Amount.InexactFloat64(),
		}
		if err := f.SetSheetRow(DetailSheet, cell, &row); err != nil {
			return err
		}
	}
	if len(txs) > 0 {
		last, _ := excelize.CoordinatesToCellName(6, len(txs)+1)
		_ = f.SetCellStyle(DetailSheet, "F2", last, moneyStyle)
	}
	_ = f.SetColWidth(DetailSheet, "A", "A", 8)
	_ = f.SetColWidth(DetailSheet, "B", "D", 18)
	_ = f.SetColWidth(DetailSheet, "E", "E", 40)
	_ = f.SetColWidth(DetailSheet, "F", "F", 20)

	// Sheet 3: per-category breakdown
	categoryHeader := []interface{}{"Danh Mục", "Loại", "Tổng Tiền", "Số Lượng"}
	if err := f.SetSheetRow(CategorySheet, "A1", &categoryHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(CategorySheet, "A1", "D1", headerStyle)
	for i, cstat := range cats {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{cstat.Category, TypeLabel(cstat.Type), cstat.Total.InexactFloat64(), cstat.Count}
		if err := f.SetSheetRow(CategorySheet, cell, &row); err != nil {
			return err
		}
	}
	if len(cats) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(cats)+1)
		_ = f.SetCellStyle(CategorySheet, "C2", last, moneyStyle)
	}
	_ = f.SetColWidth(CategorySheet, "A", "A", 20)
	_ = f.SetColWidth(CategorySheet, "B", "D", 15)

	if idx, err := f.GetSheetIndex(SummarySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	_, err = f.WriteTo(w)
	return err
}
