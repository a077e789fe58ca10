package report

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// pdfDetailCap bounds the detail table; the full set goes to the Excel export.
const pdfDetailCap = 50

var pdfColWidths = [5]float64{26, 16, 40, 66, 42}

// PDF writes the report document to w. Roboto TTFs are loaded from fontDir
// so Vietnamese text renders correctly; when the fonts are missing the
// exporter degrades to a core font with transliterated text instead of
// failing the whole export.
func PDF(w io.Writer, meta Meta, sum Summary, txs []Transaction, fontDir string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	// pin document metadata to the report timestamp so identical inputs
	// produce identical bytes
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetModificationDate(meta.GeneratedAt)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	regular := filepath.Join(fontDir, "Roboto-Regular.ttf")
	bold := filepath.Join(fontDir, "Roboto-Bold.ttf")
	if fileExists(regular) && fileExists(bold) {
		pdf.AddUTF8Font("Roboto", "", regular)
		pdf.AddUTF8Font("Roboto", "B", bold)
		family = "Roboto"
		tr = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 5, tr("Báo cáo được tạo tự động từ hệ thống quản lý chi tiêu"), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()

	pdf.SetFont(family, "B", 20)
	pdf.CellFormat(0, 12, tr("BÁO CÁO QUẢN LÝ CHI TIÊU"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 12)
	pdf.CellFormat(0, 6, tr("Người dùng: "+meta.UserName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Email: "+meta.UserEmail), "", 1, "C", false, 0, "")
	if meta.StartDate != nil || meta.EndDate != nil {
		pdf.CellFormat(0, 6, tr("Thời gian: "+meta.rangeLabel()), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr("Ngày xuất: "+meta.GeneratedAt.Format("02/01/2006")), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr("TỔNG QUAN"), "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 12)
	summaryRows := [][2]string{
		{"Tổng Thu Nhập:", FormatMoney(sum.Income)},
		{"Tổng Chi Tiêu:", FormatMoney(sum.Expense)},
		{"Số Dư:", FormatMoney(sum.Balance)},
		{"Số giao dịch:", strconv.FormatInt(sum.TotalTransactions, 10)},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(90, 7, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, tr("CHI TIẾT GIAO DỊCH"), "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	headers := [5]string{"Ngày", "Loại", "Danh mục", "Mô tả", "Số tiền"}
	pdf.SetFont(family, "B", 10)
	for i, h := range headers {
		pdf.CellFormat(pdfColWidths[i], 7, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	rows := txs
	if len(rows) > pdfDetailCap {
		rows = rows[:pdfDetailCap]
	}
	for _, t := range rows {
		cells := [5]string{
			t.Date.Format("02/01/2006"),
			TypeLabel(t.Type),
			t.Category,
			TruncateRunes(t.Description, 30),
			FormatMoney(t.Amount),
		}
		for i, cell := range cells {
			align := "L"
			if i == 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColWidths[i], 6, tr(cell), "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
