// Package telegram sends fire-and-forget run notifications. Failures are
// logged and swallowed: a broken notifier must never fail a pipeline run.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/trendpress/trendpress/internal/retry"
)

type Notifier struct {
	apiBase string
	token   string
	chatID  string
	http    *http.Client
}

func NewNotifier(token, chatID string) *Notifier {
	return &Notifier{
		apiBase: "https://api.telegram.org",
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Notify sends one message. A nil or unconfigured notifier is a no-op.
func (n *Notifier) Notify(message string) {
	if n == nil || n.token == "" || n.chatID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Delay: time.Second, Backoff: true}, func() error {
		return n.sendOnce(ctx, message)
	})
	if err != nil {
		slog.Error("telegram notification failed", "error", err)
	}
}

func (n *Notifier) sendOnce(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)

	payload := map[string]any{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error building payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}
