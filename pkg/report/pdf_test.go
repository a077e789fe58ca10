package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMeta() Meta {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return Meta{
		UserName:    "Nguyễn Văn A",
		UserEmail:   "a@example.com",
		StartDate:   &start,
		EndDate:     &end,
		GeneratedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleSummary() Summary {
	return Summary{
		Income:            decimal.NewFromInt(2000000),
		Expense:           decimal.NewFromInt(50000),
		Balance:           decimal.NewFromInt(1950000),
		TotalTransactions: 2,
	}
}

func sampleTransactions() []Transaction {
	return []Transaction{
		{
			Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Type:        TypeIncome,
			Category:    "Lương",
			Description: "Lương tháng 3",
			Amount:      decimal.NewFromInt(2000000),
		},
		{
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Type:        TypeExpense,
			Category:    "Ăn uống",
			Description: "Ăn trưa cùng đồng nghiệp tại quán phở gần công ty",
			Amount:      decimal.NewFromInt(50000),
		},
	}
}

func TestPDFProducesValidDocument(t *testing.T) {
	var buf bytes.Buffer
	err := PDF(&buf, sampleMeta(), sampleSummary(), sampleTransactions(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output must start with a PDF header")
	assert.Greater(t, buf.Len(), 500)
}

func TestPDFEmptyDataIsStillValid(t *testing.T) {
	var buf bytes.Buffer
	err := PDF(&buf, sampleMeta(), Summary{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}, nil, t.TempDir())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFCapsDetailRows(t *testing.T) {
	txs := make([]Transaction, 0, 200)
	for i := 0; i < 200; i++ {
		txs = append(txs, Transaction{
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i%28),
			Type:        TypeExpense,
			Category:    "Khác",
			Description: "giao dịch kiểm thử",
			Amount:      decimal.NewFromInt(int64(1000 * (i + 1))),
		})
	}
	var capped, full bytes.Buffer
	require.NoError(t, PDF(&capped, sampleMeta(), sampleSummary(), txs, t.TempDir()))
	require.NoError(t, PDF(&full, sampleMeta(), sampleSummary(), txs[:pdfDetailCap], t.TempDir()))
	// rows beyond the cap must not grow the document
	assert.InDelta(t, full.Len(), capped.Len(), 64)
}

func TestPDFIsDeterministicForSameInputs(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, PDF(&a, sampleMeta(), sampleSummary(), sampleTransactions(), t.TempDir()))
	require.NoError(t, PDF(&b, sampleMeta(), sampleSummary(), sampleTransactions(), t.TempDir()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
