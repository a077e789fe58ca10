package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindTxBody(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req createTxReq
	return c.ShouldBindJSON(&req)
}

func TestBindingErrorsMissingFields(t *testing.T) {
	err := bindTxBody(t, `{}`)
	require.Error(t, err)

	fields := bindingErrors(err)
	require.NotEmpty(t, fields)

	byField := map[string]string{}
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "is required", byField["type"])
	assert.Equal(t, "is required", byField["category"])
	assert.Equal(t, "is required", byField["amount"])
	assert.Equal(t, "is required", byField["description"])
}

func TestBindingErrorsBadType(t *testing.T) {
	err := bindTxBody(t, `{"type":"transfer","category":"Khác","amount":100,"description":"x"}`)
	require.Error(t, err)

	fields := bindingErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "type", fields[0].Field)
	assert.Equal(t, "must be one of: income, expense", fields[0].Message)
}

func TestBindingErrorsTooLong(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	err := bindTxBody(t, `{"type":"expense","category":"Khác","amount":100,"description":"`+string(long)+`"}`)
	require.Error(t, err)

	fields := bindingErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "description", fields[0].Field)
	assert.Equal(t, "must be at most 200 characters", fields[0].Message)
}

func TestBindingErrorsNilForMalformedJSON(t *testing.T) {
	err := bindTxBody(t, `{not json`)
	require.Error(t, err)
	assert.Nil(t, bindingErrors(err))
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "amount", lowerFirst("Amount"))
	assert.Equal(t, "", lowerFirst(""))
	assert.Equal(t, "x", lowerFirst("X"))
}
