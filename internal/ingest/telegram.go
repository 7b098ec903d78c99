package ingest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/internal/errors"
)

const (
	methodGetUpdates = "getUpdates"
	// acknowledgeTimeout bounds the call that only confirms processed updates.
	acknowledgeTimeout = 5 * time.Second
	maxResponseBytes   = 8 << 20
)

// Update is one entry of a getUpdates answer. Only channel posts matter here.
type Update struct {
	UpdateID    int64    `json:"update_id"`
	ChannelPost *Message `json:"channel_post,omitempty"`
}

// Message is the subset of a Bot API message the ingester reads.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

// Chat identifies where a message was posted.
type Chat struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

// Client talks to the Telegram Bot API. Calls are spaced by a rate limiter
// and bounded by a per-request timeout.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Bot API client from the ingest settings.
func NewClient(settings config.IngestSettings) *Client {
	interval := settings.RequestInterval
	if interval <= 0 {
		interval = config.DefaultRequestInterval
	}
	timeout := settings.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultTelegramBaseURL
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      settings.BotToken,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
	}
}

// GetUpdates fetches pending updates starting at offset. An offset of zero
// asks for everything Telegram still holds.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.FormatInt(offset, 10))
	}

	var updates []Update
	if err := c.call(ctx, methodGetUpdates, params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Acknowledge confirms every update below offset so Telegram stops returning them.
func (c *Client) Acknowledge(ctx context.Context, offset int64) error {
	ctx, cancel := context.WithTimeout(ctx, acknowledgeTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("limit", "1")
	return c.call(ctx, methodGetUpdates, params, nil)
}

func (c *Client) call(ctx context.Context, method string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("telegram %s: failed to build request: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of the error.
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("telegram %s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("telegram %s: failed to read response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("telegram %s: unexpected response (HTTP %d): %w", method, resp.StatusCode, err)
	}
	if !envelope.OK {
		return errors.NewTelegramError(method, envelope.Description)
	}
	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("telegram %s: failed to decode result: %w", method, err)
	}
	return nil
}
