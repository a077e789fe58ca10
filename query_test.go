package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/transactions?"+rawQuery, nil)
	return c
}

func TestSortExprWhitelist(t *testing.T) {
	cases := map[string]string{
		"date":       "date ASC",
		"-date":      "date DESC",
		"amount":     "amount ASC",
		"-amount":    "amount DESC",
		"createdAt":  "created_at ASC",
		"-createdAt": "created_at DESC",
		"":           "date DESC",
		"evil; DROP": "date DESC",
		"-balance":   "date DESC",
	}
	for in, want := range cases {
		assert.Equal(t, want, sortExpr(in), "sort key %q", in)
	}
}

func TestParseDay(t *testing.T) {
	d, ok := parseDay("2024-03-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, ok = parseDay("2024-03-05T10:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 5, d.Day())

	_, ok = parseDay("05/03/2024")
	assert.False(t, ok)
	_, ok = parseDay("")
	assert.False(t, ok)
}

func TestParseListQueryDefaults(t *testing.T) {
	q := parseListQuery(testContext(t, ""))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultPageSize, q.Limit)
	assert.Equal(t, "date DESC", q.Sort)
	assert.Empty(t, q.Type)
	assert.Nil(t, q.StartDate)
	assert.Nil(t, q.EndDate)
}

func TestParseListQueryJunkDegradesToDefaults(t *testing.T) {
	q := parseListQuery(testContext(t, "page=-3&limit=9999&sort=bogus&type=transfer&startDate=notadate"))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, maxPageSize, q.Limit)
	assert.Equal(t, "date DESC", q.Sort)
	assert.Empty(t, q.Type, "unknown type filter must be dropped")
	assert.Nil(t, q.StartDate)
}

func TestStoredAttachmentName(t *testing.T) {
	a := storedAttachmentName(7, "receipt.png")
	assert.True(t, strings.HasPrefix(a, "7-"), "name %q must carry the transaction id", a)
	assert.True(t, strings.HasSuffix(a, "-receipt.png"), "name %q must keep the original filename", a)

	// directory components never reach the disk name
	b := storedAttachmentName(7, "../../etc/passwd")
	assert.NotContains(t, b, "/")
	assert.True(t, strings.HasSuffix(b, "-passwd"))

	time.Sleep(time.Microsecond)
	assert.NotEqual(t, a, storedAttachmentName(7, "receipt.png"), "equal filenames must not collide")
}

func TestParseTxFilter(t *testing.T) {
	f := parseTxFilter(testContext(t, "type=expense&category=%C4%82n%20u%E1%BB%91ng&startDate=2024-03-01&endDate=2024-03-31&search=ph%E1%BB%9F"))
	assert.Equal(t, "expense", f.Type)
	assert.Equal(t, "Ăn uống", f.Category)
	assert.Equal(t, "phở", f.Search)
	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, time.March, f.StartDate.Month())
	assert.Equal(t, 31, f.EndDate.Day())
}
