package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/superfunded-backend/internal/config"
	"github.com/yungbote/superfunded-backend/internal/upstream"
)

const maxErrorBody = 64 << 10

type Engine struct {
	baseURL             string
	apiKey              string
	chatCompletionsPath string

	// timeout bounds the wait for response headers; streamTimeout bounds the whole body.
	timeout       time.Duration
	streamTimeout time.Duration

	httpClient *http.Client
}

func New(cfg config.UpstreamConfig) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}
	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Engine{
		baseURL:             baseURL,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		chatCompletionsPath: chatPath,
		timeout:             timeout,
		streamTimeout:       cfg.StreamTimeout.Duration,
		httpClient:          &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.UpstreamConfig, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type chatCompletionRequest struct {
	Model    string             `json:"model"`
	Messages []upstream.Message `json:"messages"`
	Stream   bool               `json:"stream"`
}

func (e *Engine) OpenStream(ctx context.Context, model string, messages []upstream.Message) (io.ReadCloser, error) {
	if e.apiKey == "" {
		return nil, upstream.ErrNotConfigured
	}
	if len(messages) == 0 {
		return nil, errors.New("no messages")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(chatCompletionRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	}); err != nil {
		return nil, err
	}

	var (
		ctx2   context.Context
		cancel context.CancelFunc
	)
	if e.streamTimeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, e.streamTimeout)
	} else {
		ctx2, cancel = context.WithCancel(ctx)
	}

	req, err := http.NewRequestWithContext(ctx2, "POST", e.baseURL+e.chatCompletionsPath, &buf)
	if err != nil {
		cancel()
		return nil, err
	}
	e.setHeaders(req, "application/json", "text/event-stream")

	var (
		mu       sync.Mutex
		timedOut bool
	)
	timer := time.AfterFunc(e.timeout, func() {
		mu.Lock()
		timedOut = true
		mu.Unlock()
		cancel()
	})

	resp, err := e.httpClient.Do(req)
	stopped := timer.Stop()
	if err != nil {
		cancel()
		mu.Lock()
		defer mu.Unlock()
		if !stopped && timedOut {
			return nil, upstream.ErrHeaderTimeout
		}
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		cancel()
		return nil, &upstream.HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return &streamBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

// streamBody releases the request context once the caller is done with the body.
type streamBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *streamBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func (e *Engine) setHeaders(req *http.Request, contentType string, accept string) {
	if strings.TrimSpace(contentType) != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if strings.TrimSpace(accept) != "" {
		req.Header.Set("Accept", accept)
	}
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
}
