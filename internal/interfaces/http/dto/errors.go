package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is required but missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes
// issued by the domain layer pass through unchanged; only the status differs
// by category.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Missing resources
	"NOT_FOUND": http.StatusNotFound,

	// Invalid input caught past request binding
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_UNIT":           http.StatusBadRequest,
	"INVALID_BASE_UNIT":      http.StatusBadRequest,
	"INVALID_UNITS_PER_PACK": http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_COST":           http.StatusBadRequest,
	"INVALID_STOCK_LEVEL":    http.StatusBadRequest,
	"INVALID_MOVEMENT_TYPE":  http.StatusBadRequest,
	"INVALID_SECTION":        http.StatusBadRequest,
	"INVALID_USER":           http.StatusBadRequest,

	// Business rule violations
	"INSUFFICIENT_STOCK":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_SECTION_STOCK": http.StatusUnprocessableEntity,
	"NO_AVAILABLE_ENTRY":         http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONFLICTING_DELETE":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
