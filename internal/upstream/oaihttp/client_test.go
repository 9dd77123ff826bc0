package oaihttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/superfunded-backend/internal/config"
	"github.com/yungbote/superfunded-backend/internal/upstream"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func testConfig() config.UpstreamConfig {
	return config.UpstreamConfig{
		Type:                "oai_http",
		BaseURL:             "http://gateway",
		ChatCompletionsPath: "/v1/chat/completions",
		APIKey:              "sk-test",
		Model:               "google/gemini-3-flash-preview",
		Timeout:             config.Duration{Duration: 2 * time.Second},
	}
}

func TestOpenStream_SendsStreamingRequest(t *testing.T) {
	const sse = "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"

	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/v1/chat/completions" {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Fatalf("authorization=%q", got)
			}
			if got := req.Header.Get("Accept"); got != "text/event-stream" {
				t.Fatalf("accept=%q", got)
			}
			var in chatCompletionRequest
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				t.Fatalf("decode req: %v", err)
			}
			if !in.Stream {
				t.Fatalf("expected stream=true")
			}
			if in.Model != "google/gemini-3-flash-preview" {
				t.Fatalf("model=%q", in.Model)
			}
			if len(in.Messages) != 2 || in.Messages[0].Role != "system" {
				t.Fatalf("messages=%+v", in.Messages)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
				Body:       io.NopCloser(strings.NewReader(sse)),
			}, nil
		}),
	}

	e, err := NewWithHTTPClient(testConfig(), client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	body, err := e.OpenStream(context.Background(), "google/gemini-3-flash-preview", []upstream.Message{
		{Role: "system", Content: "prompt"},
		{Role: "user", Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(raw) != sse {
		t.Fatalf("body altered: %q", raw)
	}
}

func TestOpenStream_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired, http.StatusBadGateway} {
		client := &http.Client{
			Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: status,
					Body:       io.NopCloser(strings.NewReader(`{"error":"upstream detail"}`)),
				}, nil
			}),
		}
		e, err := NewWithHTTPClient(testConfig(), client)
		if err != nil {
			t.Fatalf("NewWithHTTPClient: %v", err)
		}
		_, err = e.OpenStream(context.Background(), "m", []upstream.Message{{Role: "user", Content: "x"}})
		var he *upstream.HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("status %d: err=%v, want HTTPError", status, err)
		}
		if he.StatusCode != status || !strings.Contains(he.Body, "upstream detail") {
			t.Fatalf("HTTPError=%+v", he)
		}
	}
}

func TestOpenStream_MissingAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			t.Fatalf("no request expected without an api key")
			return nil, nil
		}),
	}
	e, err := NewWithHTTPClient(cfg, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	if _, err := e.OpenStream(context.Background(), "m", []upstream.Message{{Role: "user", Content: "x"}}); !errors.Is(err, upstream.ErrNotConfigured) {
		t.Fatalf("err=%v, want ErrNotConfigured", err)
	}
}

func TestOpenStream_HeaderTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = config.Duration{Duration: 30 * time.Millisecond}
	client := &http.Client{
		Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}
	e, err := NewWithHTTPClient(cfg, client)
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	_, err = e.OpenStream(context.Background(), "m", []upstream.Message{{Role: "user", Content: "x"}})
	if !errors.Is(err, upstream.ErrHeaderTimeout) {
		t.Fatalf("err=%v, want ErrHeaderTimeout", err)
	}
}
