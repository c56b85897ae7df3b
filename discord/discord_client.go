package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

//go:generate mockgen -source=discord_client.go -destination=mocks/discord_client_mock.go -package=mocks

type Message struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Type      string       `json:"type"`
	Title     string       `json:"title"`
	Color     int          `json:"color,omitempty"`
	Fields    []EmbedField `json:"fields"`
	Timestamp string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

const defaultBaseURL = "https://discord.com/api/v10"

type DiscordClient interface {
	SendMessage(ctx context.Context, channelID string, message Message) error
}

type Client struct {
	token   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient returns a bot client limited to five requests per second, the
// per-channel message budget of the Discord API.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// APIError is a non-2xx answer from the Discord API.
type APIError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord responded %d: %s", e.StatusCode, e.Body)
}

// SendMessage posts message to a channel. A 429 answer is retried once
// after the delay Discord asks for.
func (c *Client) SendMessage(ctx context.Context, channelID string, message Message) error {
	if strings.TrimSpace(channelID) == "" {
		return errors.New("channelID cannot be empty")
	}

	endpoint, err := url.JoinPath(c.baseURL, "channels", channelID, "messages")
	if err != nil {
		return fmt.Errorf("build message url: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	err = c.post(ctx, endpoint, payload)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(apiErr.RetryAfter):
		}
		err = c.post(ctx, endpoint, payload)
	}

	return err
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+c.token)

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	apiErr := &APIError{StatusCode: res.StatusCode, Body: string(body)}

	if seconds, err := strconv.ParseFloat(res.Header.Get("Retry-After"), 64); err == nil {
		apiErr.RetryAfter = time.Duration(seconds * float64(time.Second))
	}

	return apiErr
}
