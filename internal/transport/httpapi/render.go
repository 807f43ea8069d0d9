package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeSessionRequired        = "session_required"
	codeUnknownToggleKey       = "unknown_toggle_key"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
