package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/metrics"
	"github.com/blossom2016/stripeConnect/models"
	"github.com/blossom2016/stripeConnect/repository"
	"github.com/blossom2016/stripeConnect/sender"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventCheckoutExpired     = "checkout.session.expired"
	EventPaymentIntentFailed = "payment_intent.payment_failed"

	unknownCustomer     = "Unknown"
	unknownPaymentError = "Unknown error"
)

// WebhookResult describes how a verified event was handled.
type WebhookResult struct {
	EventID   string
	EventType string
	Duplicate bool
	Handled   bool
}

// WebhookService verifies Stripe events and relays payment outcomes.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error)
}

type webhookServiceImpl struct {
	platform      PaymentPlatform
	events        repository.EventRepository
	notifier      sender.Notifier
	notifyTimeout time.Duration
	metrics       *metrics.ServerMetrics
	logger        *zap.Logger
}

// NewWebhookService builds the receiver. A nil events repository disables
// duplicate suppression.
func NewWebhookService(
	platform PaymentPlatform,
	events repository.EventRepository,
	notifier sender.Notifier,
	notifyTimeout time.Duration,
	m *metrics.ServerMetrics,
	logger *zap.Logger,
) WebhookService {
	return &webhookServiceImpl{
		platform:      platform,
		events:        events,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		metrics:       m,
		logger:        logger,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error) {
	event, err := s.verify(payload, sigHeader)
	if err != nil {
		s.logger.Warn("Stripe webhook verification failed", zap.Error(err))
		s.metrics.ObserveWebhook("unverified", "rejected")
		return nil, err
	}

	result := &WebhookResult{EventID: event.ID, EventType: string(event.Type)}
	s.logger.Info("Processing Stripe webhook",
		zap.String("event_type", result.EventType),
		zap.String("event_id", result.EventID),
	)

	if s.isDuplicate(ctx, event) {
		s.logger.Info("Skipping duplicate webhook event",
			zap.String("event_type", result.EventType),
			zap.String("event_id", result.EventID),
		)
		s.metrics.ObserveWebhook(result.EventType, "duplicate")
		result.Duplicate = true
		return result, nil
	}

	text, handled := s.dispatch(event)
	result.Handled = handled
	if !handled {
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", result.EventType))
		s.metrics.ObserveWebhook(result.EventType, "ignored")
		return result, nil
	}

	s.notify(ctx, models.Notification{
		Text:      text,
		EventID:   event.ID,
		EventType: result.EventType,
		Timestamp: time.Now().UTC(),
	})
	s.metrics.ObserveWebhook(result.EventType, "dispatched")
	return result, nil
}

// verify maps verification failures onto the three rejection messages.
func (s *webhookServiceImpl) verify(payload []byte, sigHeader string) (stripe.Event, error) {
	if !json.Valid(payload) {
		return stripe.Event{}, apperrors.Verification("invalid payload", nil)
	}
	event, err := s.platform.ConstructEvent(payload, sigHeader)
	switch {
	case err == nil:
		return event, nil
	case errors.Is(err, webhook.ErrNotSigned),
		errors.Is(err, webhook.ErrInvalidHeader),
		errors.Is(err, webhook.ErrNoValidSignature),
		errors.Is(err, webhook.ErrTooOld):
		return stripe.Event{}, apperrors.Verification("invalid signature", err)
	default:
		return stripe.Event{}, apperrors.Verification(err.Error(), err)
	}
}

func (s *webhookServiceImpl) isDuplicate(ctx context.Context, event stripe.Event) bool {
	if s.events == nil || event.ID == "" {
		return false
	}
	first, err := s.events.MarkProcessed(ctx, event.ID, string(event.Type))
	if err != nil {
		s.logger.Warn("Failed to record webhook event, processing anyway",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return false
	}
	return !first
}

// dispatch builds the notification text for the event types the marketplace
// reports on.
func (s *webhookServiceImpl) dispatch(event stripe.Event) (string, bool) {
	switch string(event.Type) {
	case EventCheckoutCompleted:
		return s.checkoutCompletedMessage(event), true
	case EventCheckoutExpired:
		return s.checkoutExpiredMessage(event), true
	case EventPaymentIntentFailed:
		return s.paymentFailedMessage(event), true
	default:
		return "", false
	}
}

func (s *webhookServiceImpl) checkoutCompletedMessage(event stripe.Event) string {
	var sess stripe.CheckoutSession
	s.decodeObject(event, &sess)

	email := unknownCustomer
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	} else if sess.CustomerEmail != "" {
		email = sess.CustomerEmail
	}

	s.logger.Info("Payment succeeded for session", zap.String("session_id", sess.ID))
	return fmt.Sprintf("✅ Payment succeeded! Customer: %s, Amount: %s", email, models.FormatAmount(sess.AmountTotal))
}

func (s *webhookServiceImpl) checkoutExpiredMessage(event stripe.Event) string {
	var sess stripe.CheckoutSession
	s.decodeObject(event, &sess)
	return fmt.Sprintf("⚠️ Checkout session expired: %s", sess.ID)
}

func (s *webhookServiceImpl) paymentFailedMessage(event stripe.Event) string {
	var pi stripe.PaymentIntent
	s.decodeObject(event, &pi)

	reason := unknownPaymentError
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		reason = pi.LastPaymentError.Msg
	}
	return fmt.Sprintf("❌ Payment failed: %s", reason)
}

// decodeObject fills dst from the event's data.object; on failure dst keeps
// its zero value and the message falls back to defaults.
func (s *webhookServiceImpl) decodeObject(event stripe.Event, dst interface{}) {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return
	}
	if err := json.Unmarshal(event.Data.Raw, dst); err != nil {
		s.logger.Warn("Failed to unmarshal webhook object",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

func (s *webhookServiceImpl) notify(ctx context.Context, n models.Notification) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("Notification delivery incomplete", zap.String("event_id", n.EventID), zap.Error(err))
	}
}
