package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/superfunded-backend/internal/upstream"
)

// Engine answers with an echo of the last user message, framed the way an
// OpenAI-compatible gateway streams it.
type Engine struct {
	ChunkSize int
}

func New() *Engine {
	return &Engine{ChunkSize: 16}
}

func (e *Engine) OpenStream(ctx context.Context, model string, messages []upstream.Message) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			user = messages[i].Content
			break
		}
	}
	full := "mock: ok"
	if strings.TrimSpace(user) != "" {
		full = fmt.Sprintf("mock: %s", user)
	}
	return io.NopCloser(bytes.NewReader(Frames(model, full, e.ChunkSize))), nil
}

// Frames renders text as a sequence of delta events followed by the terminal sentinel.
func Frames(model, text string, chunk int) []byte {
	if chunk <= 0 {
		chunk = 16
	}
	var buf bytes.Buffer
	runes := []rune(text)
	for i := 0; i < len(runes); i += chunk {
		end := i + chunk
		if end > len(runes) {
			end = len(runes)
		}
		ev := map[string]any{
			"object": "chat.completion.chunk",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "delta": map[string]any{"content": string(runes[i:end])}},
			},
		}
		b, _ := json.Marshal(ev)
		buf.WriteString("data: ")
		buf.Write(b)
		buf.WriteString("\n\n")
	}
	buf.WriteString("data: [DONE]\n\n")
	return buf.Bytes()
}
