package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the standard error envelope for non-OTP failures
// (bad request bodies, bad credentials, internal errors).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeValidation     = "ERR_VALIDATION"
	ErrCodeAuthentication = "ERR_AUTHENTICATION"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeInternal       = "ERR_INTERNAL"
)

// RespondWithError sends a standardized error response
func RespondWithError(w http.ResponseWriter, code string, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
}
