package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

var (
	// ErrSlackAPI: HTTP 200 nhưng body trả về ok:false
	ErrSlackAPI = errors.New("slack api error")

	// ErrSinkTimeout: request vượt quá timeout của client
	ErrSinkTimeout = errors.New("slack request timed out")

	ErrNotConfigured = errors.New("slack bot token not configured")
)

// =====================================================
// SLACK WEB API CLIENT
// =====================================================

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a chat.postMessage client; timeout <= 0 dùng 10s
func NewClient(token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL dùng cho test (httptest server)
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type postMessageRequest struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts,omitempty"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	TS    string `json:"ts,omitempty"`
}

// SendMessage posts text to a channel
func (c *Client) SendMessage(ctx context.Context, channelID, text string) error {
	_, err := c.PostMessage(ctx, channelID, text, "")
	return err
}

// PostMessage posts text, optionally as a thread reply, and returns the message ts
func (c *Client) PostMessage(ctx context.Context, channelID, text, threadTS string) (string, error) {
	if c.token == "" {
		return "", ErrNotConfigured
	}

	// Step 1: Build request body
	body, err := json.Marshal(postMessageRequest{Channel: channelID, Text: text, ThreadTS: threadTS})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	// Step 2: Call Slack API
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrSinkTimeout, err)
		}
		return "", fmt.Errorf("failed to call Slack API: %w", err)
	}
	defer resp.Body.Close()

	// Step 3: Parse response
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrSinkTimeout, err)
		}
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: http %d", ErrSlackAPI, resp.StatusCode)
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Step 4: Check ok flag
	if !out.OK {
		return "", fmt.Errorf("%w: %s", ErrSlackAPI, out.Error)
	}
	return out.TS, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
