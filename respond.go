package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one field-level validation message in an error response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondValidation turns a gin binding error into a 400 with per-field messages.
func respondValidation(c *gin.Context, err error) {
	fields := bindingErrors(err)
	if len(fields) == 0 {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "validation failed",
		"errors":  fields,
	})
}

// bindingErrors extracts field-level messages from validator errors.
// Returns nil for non-validator errors (malformed JSON etc.).
func bindingErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: lowerFirst(fe.Field()), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
