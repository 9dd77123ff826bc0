package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Engine opens a streamed chat completion. The returned body is the raw event stream and
// must be closed by the caller.
type Engine interface {
	OpenStream(ctx context.Context, model string, messages []Message) (io.ReadCloser, error)
}

var (
	// ErrNotConfigured is returned before any network call when the engine lacks credentials.
	ErrNotConfigured = errors.New("upstream api key is not configured")
	ErrHeaderTimeout = errors.New("upstream did not respond in time")
)

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}
