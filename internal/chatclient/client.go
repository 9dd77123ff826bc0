package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	maxErrorBody = 4 << 10
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HTTPError is a non-2xx answer from the chat endpoint. Message is the
// server's "error" field when it sent one.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chat endpoint returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("chat endpoint returned %d", e.StatusCode)
}

type Client struct {
	endpoint   string
	publicKey  string
	clientInfo string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient swaps the transport; tests use it with httptest servers.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithClientInfo(info string) ClientOption {
	return func(c *Client) { c.clientInfo = strings.TrimSpace(info) }
}

// NewClient targets a full chat URL such as https://api.example.com/api/chat.
func NewClient(endpoint, publicKey string, opts ...ClientOption) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("chatclient: endpoint required")
	}
	c := &Client{
		endpoint:   endpoint,
		publicKey:  strings.TrimSpace(publicKey),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatRequest struct {
	Messages  []Message `json:"messages"`
	SessionID string    `json:"sessionId"`
}

// Stream posts the full history and returns the event-stream body. The
// caller owns the body and must close it.
func (c *Client) Stream(ctx context.Context, sessionID string, messages []Message) (io.ReadCloser, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(chatRequest{Messages: messages, SessionID: sessionID}); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.publicKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.publicKey)
	}
	if c.clientInfo != "" {
		req.Header.Set("X-Client-Info", c.clientInfo)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return resp.Body, nil
}
