package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount the way Vietnamese statements do: thousands
// grouped with dots and a trailing đồng sign (1234567 -> "1.234.567 đ").
// Fractional đồng is unusual but kept with a comma separator when present.
func FormatMoney(d decimal.Decimal) string {
	neg := d.IsNegative()
	abs := d.Abs()

	intPart := abs.Truncate(0)
	s := groupThousands(intPart.StringFixed(0))

	if frac := abs.Sub(intPart); !frac.IsZero() {
		cents := frac.StringFixed(2) // "0.50"
		s += "," + cents[2:]
	}
	if neg {
		s = "-" + s
	}
	return s + " đ"
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// TruncateRunes shortens s to at most n runes, never splitting a multi-byte
// character. Vietnamese descriptions make byte-based slicing unsafe.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
