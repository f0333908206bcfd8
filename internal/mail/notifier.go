package mail

import (
	"context"
	"fmt"

	"perde-store/internal/model"

	"github.com/rs/zerolog"
)

// Notifier sends the order lifecycle notifications: one message to the
// customer and one to the operator on creation and on every status change.
// The operator address is configuration, not a literal.
type Notifier struct {
	mailer   Mailer
	operator string
	logger   zerolog.Logger
}

// NewNotifier creates a notifier. An empty operator address disables the
// operator copy.
func NewNotifier(mailer Mailer, operator string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		mailer:   mailer,
		operator: operator,
		logger:   logger.With().Str("component", "notifier").Logger(),
	}
}

// OrderCreated notifies the customer (when an email is known) and the
// operator about a newly placed order. Failures are logged, never
// propagated: notifications must not fail the order flow.
func (n *Notifier) OrderCreated(ctx context.Context, order *model.Order, customerEmail string) {
	subject := fmt.Sprintf("Siparişiniz alındı — %s", order.ID)
	body := fmt.Sprintf(
		"Siparişiniz başarıyla oluşturuldu.\n\nSipariş no: %s\nTutar: %s %s\nÜrün sayısı: %d\n",
		order.ID, order.PaidPrice.StringFixed(2), order.Currency, len(order.Items))

	n.deliver(ctx, customerEmail, subject, body)

	opSubject := fmt.Sprintf("Yeni sipariş — %s", order.ID)
	opBody := fmt.Sprintf(
		"Yeni sipariş alındı.\n\nSipariş no: %s\nHesap: %s\nTutar: %s %s\nÜrün sayısı: %d\n",
		order.ID, order.AccountID, order.PaidPrice.StringFixed(2), order.Currency, len(order.Items))

	n.deliverOperator(ctx, opSubject, opBody)
}

// StatusChanged notifies the customer and the operator about a status
// transition.
func (n *Notifier) StatusChanged(ctx context.Context, order *model.Order, customerEmail string) {
	subject := fmt.Sprintf("Sipariş durumu güncellendi — %s", order.ID)
	body := fmt.Sprintf(
		"Siparişinizin durumu güncellendi.\n\nSipariş no: %s\nYeni durum: %s\n",
		order.ID, order.Status)

	n.deliver(ctx, customerEmail, subject, body)

	opSubject := fmt.Sprintf("Sipariş durumu: %s — %s", order.Status, order.ID)
	opBody := fmt.Sprintf(
		"Sipariş durumu güncellendi.\n\nSipariş no: %s\nHesap: %s\nYeni durum: %s\n",
		order.ID, order.AccountID, order.Status)

	n.deliverOperator(ctx, opSubject, opBody)
}

func (n *Notifier) deliver(ctx context.Context, email, subject, body string) {
	if email == "" {
		n.logger.Debug().Str("subject", subject).Msg("no customer email, skipping notification")
		return
	}
	if err := n.mailer.Send(ctx, []string{email}, subject, body); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("customer notification failed")
	}
}

func (n *Notifier) deliverOperator(ctx context.Context, subject, body string) {
	if n.operator == "" {
		n.logger.Debug().Str("subject", subject).Msg("no operator address configured, skipping notification")
		return
	}
	if err := n.mailer.Send(ctx, []string{n.operator}, subject, body); err != nil {
		n.logger.Error().Err(err).Str("subject", subject).Msg("operator notification failed")
	}
}
