package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		name string
		in   decimal.Decimal
		want string
	}{
		{"zero", decimal.Zero, "0 đ"},
		{"small", decimal.NewFromInt(500), "500 đ"},
		{"thousands", decimal.NewFromInt(50000), "50.000 đ"},
		{"millions", decimal.NewFromInt(2000000), "2.000.000 đ"},
		{"balance", decimal.NewFromInt(1950000), "1.950.000 đ"},
		{"negative", decimal.NewFromInt(-125000), "-125.000 đ"},
		{"fractional", decimal.NewFromFloat(1234.5), "1.234,50 đ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatMoney(tc.in))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 30))
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "", TruncateRunes("abc", 0))

	// Vietnamese text must cut on rune boundaries, not bytes
	in := "Ăn trưa cùng đồng nghiệp tại quán phở"
	got := TruncateRunes(in, 30)
	assert.Equal(t, 30, len([]rune(got)))
	assert.Equal(t, "Ăn trưa cùng đồng nghiệp tại q", got)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Thu", TypeLabel(TypeIncome))
	assert.Equal(t, "Chi", TypeLabel(TypeExpense))
}
