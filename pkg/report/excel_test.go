package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleCategories() []CategoryTotal {
	return []CategoryTotal{
		{Category: "Lương", Type: TypeIncome, Total: decimal.NewFromInt(2000000), Count: 1},
		{Category: "Ăn uống", Type: TypeExpense, Total: decimal.NewFromInt(50000), Count: 1},
	}
}

func TestExcelWorkbookLayout(t *testing.T) {
	var buf bytes.Buffer
	err := Excel(&buf, sampleMeta(), sampleSummary(), sampleTransactions(), sampleCategories())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{SummarySheet, DetailSheet, CategorySheet}, f.GetSheetList())

	// summary sheet: labels in A, numeric values in B
	label, err := f.GetCellValue(SummarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Tổng Thu Nhập", label)
	income, err := f.GetCellValue(SummarySheet, "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2000000", income)
	balance, err := f.GetCellValue(SummarySheet, "B4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1950000", balance)

	// detail sheet: sequential STT column, amounts stay numeric
	stt, err := f.GetCellValue(DetailSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2", stt)
	desc, err := f.GetCellValue(DetailSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "Lương tháng 3", desc)
	amount, err := f.GetCellValue(DetailSheet, "F3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "50000", amount)

	// category sheet keeps the descending-total order it was handed
	cat, err := f.GetCellValue(CategorySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Lương", cat)
	kind, err := f.GetCellValue(CategorySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Chi", kind)
}

func TestExcelEmptyDataIsStillValid(t *testing.T) {
	var buf bytes.Buffer
	err := Excel(&buf, sampleMeta(), Summary{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}, nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Len(t, f.GetSheetList(), 3)
	header, err := f.GetCellValue(DetailSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "STT", header)
}

func TestExcelDetailIsNotCapped(t *testing.T) {
	txs := make([]Transaction, 0, 120)
	for i := 0; i < 120; i++ {
		txs = append(txs, sampleTransactions()[i%2])
	}
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, sampleMeta(), sampleSummary(), txs, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DetailSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 121) // header + every transaction
}
