package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"carteira/internal/core"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeValidationError maps domain validation errors onto the field that
// caused them, so the form layer can surface field-level messages.
func writeValidationError(w http.ResponseWriter, err error) {
	field := "transaction"
	switch {
	case errors.Is(err, core.ErrInvalidType):
		field = "type"
	case errors.Is(err, core.ErrAmountSign), errors.Is(err, core.ErrInvalidAmount):
		field = "amount"
	case errors.Is(err, core.ErrFutureDate), errors.Is(err, core.ErrZeroDate):
		field = "date"
	case errors.Is(err, core.ErrShortDescription), errors.Is(err, core.ErrLongDescription):
		field = "description"
	case errors.Is(err, core.ErrLongCategory):
		field = "category"
	}
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Code:    "validation_failed",
		Message: err.Error(),
		Fields:  map[string]string{field: err.Error()},
	})
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parsePage extracts limit/offset with defaults and bounds.
func parsePage(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
