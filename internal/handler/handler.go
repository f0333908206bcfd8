package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"perde-store/internal/model"
	"perde-store/internal/payment"

	"github.com/rs/zerolog"
)

// ErrorResponse is the plain error shape used by the catalogue routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// failureResponse is the order/payment failure envelope.
type failureResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	ErrorCode  string `json:"errorCode,omitempty"`
	ErrorGroup string `json:"errorGroup,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Nothing useful can be done for the client at this point.
		return
	}
}

// writeError writes a plain error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeFailure writes the order-route failure envelope
// {"status":"failure","error":...}.
func writeFailure(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler failure")
	writeJSON(w, status, failureResponse{Status: "failure", Error: message})
}

// errorStatus maps a service error onto an HTTP status code. Validation
// problems and gateway declines are the caller's fault (400); configuration
// and persistence problems are ours (500).
func errorStatus(err error) int {
	var gwErr *payment.Error
	if errors.As(err, &gwErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, payment.ErrNotConfigured) {
		return http.StatusInternalServerError
	}

	var domErr *model.DomainError
	if errors.As(err, &domErr) {
		switch domErr.Code {
		case model.ErrCodeConfiguration, model.ErrCodePersistence, model.ErrCodeInternalError:
			return http.StatusInternalServerError
		default:
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}
