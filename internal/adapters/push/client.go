package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"farmtrack/internal/domain"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

type expoPushSender struct {
	client *http.Client
	url    string
}

// NewExpoSender returns a PushSender that posts messages to the Expo push
// gateway, which the mobile app's device tokens belong to.
func NewExpoSender(client *http.Client) domain.PushSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &expoPushSender{client: client, url: expoPushURL}
}

type expoMessage struct {
	To    []string `json:"to"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Sound string   `json:"sound"`
}

func (s *expoPushSender) SendPush(ctx context.Context, tokens []string, title, body string) error {
	if len(tokens) == 0 {
		return nil
	}
	payload, err := json.Marshal(expoMessage{To: tokens, Title: title, Body: body, Sound: "default"})
	if err != nil {
		return fmt.Errorf("failed to encode push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway returned status: %d", resp.StatusCode)
	}
	return nil
}

type noopSender struct {
	logger *slog.Logger
}

// NewNoopSender returns a PushSender that only logs. Used when no push
// gateway is configured.
func NewNoopSender(logger *slog.Logger) domain.PushSender {
	return &noopSender{logger: logger}
}

func (n *noopSender) SendPush(ctx context.Context, tokens []string, title, body string) error {
	n.logger.Info("push would be sent (noop)", "tokens", len(tokens), "title", title)
	return nil
}
