package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"perde-store/internal/payment"
	"perde-store/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles standalone charge requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Charge handles POST /api/payment: relay the payload to the gateway. On
// success the gateway's own JSON is passed through; failures use the
// {"status":"error", ...} envelope with the gateway's code and group.
func (h *PaymentHandler) Charge(w http.ResponseWriter, r *http.Request) {
	var req payment.Request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, failureResponse{Status: "error", Error: "invalid request body"})
		return
	}

	result, err := h.service.Charge(r.Context(), req)
	if err != nil {
		h.writeChargeError(w, err)
		return
	}

	if len(result.Raw) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(result.Raw)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PaymentHandler) writeChargeError(w http.ResponseWriter, err error) {
	var gwErr *payment.Error
	if errors.As(err, &gwErr) {
		h.logger.Warn().
			Str("error_code", gwErr.Code).
			Str("error_group", gwErr.Group).
			Msg("charge declined")
		writeJSON(w, http.StatusBadRequest, failureResponse{
			Status:     "error",
			Error:      gwErr.Message,
			ErrorCode:  gwErr.Code,
			ErrorGroup: gwErr.Group,
		})
		return
	}

	status := http.StatusInternalServerError
	if !errors.Is(err, payment.ErrNotConfigured) {
		h.logger.Error().Err(err).Msg("charge failed")
	} else {
		h.logger.Error().Msg("payment gateway credentials missing")
	}
	writeJSON(w, status, failureResponse{Status: "error", Error: err.Error()})
}
