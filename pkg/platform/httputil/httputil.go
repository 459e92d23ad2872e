// Package httputil centralizes JSON encoding and domain error translation
// for HTTP handlers, so every endpoint emits the same envelopes.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"

	dErrors "condogate/pkg/domain-errors"
)

// Preparer is implemented by request DTOs that normalize and validate
// themselves after decoding.
type Preparer interface {
	Normalize()
	Validate() error
}

// WriteJSON encodes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error response.
// Internal errors omit the description so store details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into T, then normalizes and validates it.
// On failure it writes the error response and returns ok=false; handlers
// just return early.
func Decode[T Preparer](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "malformed request body", "error", err)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		return req, false
	}
	// A body of literal null decodes without error but leaves a pointer
	// DTO nil; Normalize would dereference it.
	if v := reflect.ValueOf(req); v.Kind() == reflect.Pointer && v.IsNil() {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body must be a JSON object"))
		return req, false
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return req, false
	}
	return req, true
}
