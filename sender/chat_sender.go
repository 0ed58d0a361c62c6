package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blossom2016/stripeConnect/models"

	"go.uber.org/zap"
)

const (
	chatUsername  = "Marketplace Bot"
	chatIconEmoji = ":moneybag:"
)

type chatPayload struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

// ChatSender posts messages to a Slack-compatible incoming webhook.
type ChatSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewChatSender returns a sender for webhookURL. An empty URL disables delivery.
func NewChatSender(webhookURL string, timeout time.Duration, logger *zap.Logger) *ChatSender {
	return &ChatSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *ChatSender) Name() string { return "chat" }

func (s *ChatSender) Enabled() bool { return s.webhookURL != "" }

func (s *ChatSender) Notify(ctx context.Context, n models.Notification) error {
	if !s.Enabled() {
		s.logger.Info("Chat webhook not configured, skipping notification", zap.String("event_id", n.EventID))
		return nil
	}

	body, err := json.Marshal(chatPayload{Text: n.Text, Username: chatUsername, IconEmoji: chatIconEmoji})
	if err != nil {
		return fmt.Errorf("failed to encode chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Info("Chat notification sent", zap.String("event_id", n.EventID))
	return nil
}
