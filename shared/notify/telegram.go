package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Channel delivers a short text notification.
type Channel interface {
	Send(ctx context.Context, text string) error
}

const defaultAPIBase = "https://api.telegram.org"

// Telegram posts messages to a Telegram channel through the bot API.
// A missing token or chat ID degrades to a logged no-op, never an error:
// notification delivery is best-effort by contract.
type Telegram struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
}

// TelegramOption configures the channel.
type TelegramOption func(*Telegram)

// WithAPIBase overrides the bot API base URL (used in tests).
func WithAPIBase(base string) TelegramOption {
	return func(t *Telegram) {
		if base != "" {
			t.apiBase = base
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		if client != nil {
			t.client = client
		}
	}
}

func NewTelegram(token, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		apiBase: defaultAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Configured reports whether both the bot token and chat ID are set.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

// Send posts the text to the configured chat.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		log.Printf("Warning: Telegram not configured, skipping notification")
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	form := url.Values{
		"chat_id":                  {t.chatID},
		"text":                     {text},
		"disable_web_page_preview": {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create Telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API returned %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("Telegram notification sent")
	return nil
}
