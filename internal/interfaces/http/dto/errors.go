package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back by prefix below.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,

	"VARIANT_NOT_FOUND": http.StatusNotFound,

	// Conflicts with current resource state -> 409
	"CONFLICT":               http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"DUPLICATE_SKU":          http.StatusConflict,
	"DUPLICATE_ORDER_NUMBER": http.StatusConflict,
	"EMAIL_EXISTS":           http.StatusConflict,
	"SESSION_COMPLETED":      http.StatusConflict,

	// Business rule violations -> 422
	"INVALID_TRANSITION":       http.StatusUnprocessableEntity,
	"REFUND_EXCEEDS_PAID":      http.StatusUnprocessableEntity,
	"STEP_MISMATCH":            http.StatusUnprocessableEntity,
	"INVALID_TOTAL":            http.StatusUnprocessableEntity,
	"MISSING_SHIPPING_ADDRESS": http.StatusUnprocessableEntity,

	// Malformed input -> 400
	"INVALID_STATUS": http.StatusBadRequest,
	"INVALID_PERIOD": http.StatusBadRequest,
	"INVALID_STEP":   http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// The INVALID_ family defaults to 400; everything else unknown is treated
// as a business rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
