package dto

import "net/http"

// statusByCode maps domain error codes to HTTP status codes
var statusByCode = map[string]int{
	"NOT_FOUND":           http.StatusNotFound,
	"ALREADY_EXISTS":      http.StatusConflict,
	"USERNAME_TAKEN":      http.StatusConflict,
	"EMAIL_TAKEN":         http.StatusConflict,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PRICE":       http.StatusBadRequest,
	"INVALID_STOCK":       http.StatusBadRequest,
	"INVALID_CATEGORY":    http.StatusBadRequest,
	"INVALID_PRODUCT":     http.StatusBadRequest,
	"INVALID_USERNAME":    http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"EMPTY_CART":          http.StatusBadRequest,
	"MISSING_FIELD":       http.StatusBadRequest,
	"UNKNOWN_PRODUCT":     http.StatusBadRequest,
	"INVALID_RESET_TOKEN": http.StatusBadRequest,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
}

// StatusForCode returns the HTTP status for a domain error code
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
