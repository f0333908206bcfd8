package service

import (
	"context"

	"perde-store/internal/payment"

	"github.com/rs/zerolog"
)

// paymentService implements PaymentService as a thin pass-through to the
// gateway: the caller supplies the full gateway payload.
type paymentService struct {
	gateway payment.Gateway
	logger  zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway payment.Gateway, logger zerolog.Logger) PaymentService {
	return &paymentService{
		gateway: gateway,
		logger:  logger.With().Str("service", "payment").Logger(),
	}
}

// Charge authorizes a card payment without creating an order.
func (s *paymentService) Charge(ctx context.Context, req payment.Request) (*payment.Result, error) {
	result, err := s.gateway.Charge(ctx, req)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("conversation_id", req.ConversationID).
			Msg("standalone charge failed")
		return nil, err
	}
	return result, nil
}
