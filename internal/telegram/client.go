// Package telegram talks to the Telegram Bot API: outbound messages and inbound updates.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://api.telegram.org"

var tracer = otel.Tracer("callbridge.internal.telegram")

// ErrNotConfigured is returned when the bot token or chat id is empty.
var ErrNotConfigured = errors.New("telegram: bot token and chat id are required")

// Config controls how the bot client behaves.
type Config struct {
	BaseURL    string
	BotToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client sends messages through the Bot API.
type Client struct {
	baseURL  string
	botToken string
	client   *http.Client
}

// NewClient builds a Client with sane defaults. An empty token is allowed; sends then fail
// with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  baseURL,
		botToken: strings.TrimSpace(cfg.BotToken),
		client:   httpClient,
	}
}

// SendMessage posts text to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	chatID = strings.TrimSpace(chatID)
	if c.botToken == "" || chatID == "" {
		return ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "telegram.send_message", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("callbridge.telegram.chat_id", chatID))

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", stripURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		err = stripURL(err)
		span.RecordError(err)
		return fmt.Errorf("telegram: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("telegram API error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		span.RecordError(err)
		return err
	}
	return nil
}

// stripURL drops the request URL from transport errors; it embeds the bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
