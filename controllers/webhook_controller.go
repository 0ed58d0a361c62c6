package controllers

import (
	"net/http"

	"github.com/blossom2016/stripeConnect/apperrors"
	"github.com/blossom2016/stripeConnect/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stripeSignatureHeader = "Stripe-Signature"

type WebhookController struct {
	webhooks services.WebhookService
	logger   *zap.Logger
}

func NewWebhookController(webhooks services.WebhookService, logger *zap.Logger) *WebhookController {
	return &WebhookController{webhooks: webhooks, logger: logger}
}

// StripeWebhook verifies the raw body against the signature header and
// acknowledges once the event has been dispatched.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		wc.logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}

	result, err := wc.webhooks.HandleEvent(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader))
	if err != nil {
		c.JSON(apperrors.StatusCode(err), gin.H{"success": false, "error": apperrors.Message(err)})
		return
	}

	wc.logger.Debug("Webhook acknowledged",
		zap.String("event_id", result.EventID),
		zap.Bool("duplicate", result.Duplicate),
		zap.Bool("handled", result.Handled),
	)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
