package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/pointmarket/pkg/notifier"
)

// WebhookSender posts each message as JSON to a single URL, such as a chat
// platform's incoming webhook.
type WebhookSender struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookSender creates a sender with a per-request timeout.
func NewWebhookSender(url string, timeout time.Duration, logger *slog.Logger) *WebhookSender {
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With("component", "webhook-sender"),
	}
}

// Send posts msg and fails on any non-2xx response.
func (s *WebhookSender) Send(ctx context.Context, msg notifier.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webhook: marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	s.logger.Debug("notification delivered", "event", msg.Event, "recipient", msg.Recipient)
	return nil
}

var _ notifier.Sender = (*WebhookSender)(nil)

// LogSender writes messages to the application log. It is used when no
// webhook is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "log-sender")}
}

func (s *LogSender) Send(_ context.Context, msg notifier.Message) error {
	s.logger.Info("📣 "+msg.Text,
		"channel", msg.Channel,
		"recipient", msg.Recipient,
		"event", msg.Event,
	)
	return nil
}

var _ notifier.Sender = (*LogSender)(nil)
