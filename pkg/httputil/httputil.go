// Package httputil holds the JSON transport helpers shared by the
// verification backend handlers.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"formfill/contracts/verification"
	"formfill/pkg/fferrors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// best-effort fallback; don't override status for the caller
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// DecodeJSON decodes a JSON request body into the target type.
// On failure it writes an INVALID_INPUT response and returns nil, false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		WriteError(w, fferrors.New(fferrors.CodeInvalidInput, "invalid request body"))
		return nil, false
	}
	return &req, true
}

// WriteError centralizes error translation to HTTP responses so every
// failure leaves the backend in the same envelope the gateway expects.
func WriteError(w http.ResponseWriter, err error) {
	code := fferrors.CodeOf(err)
	body := verification.ErrorResponse{
		ErrorCode: string(code),
		Message:   err.Error(),
	}
	WriteJSON(w, StatusFor(code), body)
}

// StatusFor translates failure codes to HTTP status codes.
func StatusFor(code fferrors.Code) int {
	switch code {
	case fferrors.CodeInvalidInput, fferrors.CodeInvalidFormat:
		return http.StatusBadRequest
	case fferrors.CodeNotFound:
		return http.StatusNotFound
	case fferrors.CodeRateLimit:
		return http.StatusTooManyRequests
	case fferrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case fferrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case fferrors.CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
