package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/superfunded-backend/internal/observability"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
	"github.com/yungbote/superfunded-backend/internal/upstream"
)

const (
	MaxLoggedMessageChars = 500
	StatusSuccess         = "success"

	maxLoggedUpstreamBody = 2048
)

type Request struct {
	Messages  []upstream.Message `json:"messages"`
	SessionID string             `json:"sessionId,omitempty"`
}

// Prompter supplies the system prompt for one request.
type Prompter interface {
	Compose(ctx context.Context) string
}

type Service struct {
	log      *logger.Logger
	prompter Prompter
	engine   upstream.Engine
	model    string
	recorder Recorder
}

func NewService(log *logger.Logger, prompter Prompter, engine upstream.Engine, model string, recorder Recorder) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Service{
		log:      log.With("service", "ChatService"),
		prompter: prompter,
		engine:   engine,
		model:    model,
		recorder: recorder,
	}
}

// Stream validates req, prepends the system prompt and opens the upstream event stream.
// The body is returned untouched; the caller relays and closes it.
func (s *Service) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	ctx, span := observability.Tracer("chat").Start(ctx, "chat.Stream")
	defer span.End()
	span.SetAttributes(attribute.Int("chat.messages", len(req.Messages)), attribute.String("chat.model", s.model))

	if err := Validate(req); err != nil {
		span.SetStatus(codes.Error, "malformed request")
		return nil, err
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = "anon_" + uuid.NewString()
	}

	messages := make([]upstream.Message, 0, len(req.Messages)+1)
	messages = append(messages, upstream.Message{Role: "system", Content: s.prompter.Compose(ctx)})
	messages = append(messages, req.Messages...)

	body, err := s.engine.OpenStream(ctx, s.model, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream failed")
		return nil, s.classify(ctx, err)
	}

	s.recorder.Record(Interaction{
		SessionID:   sessionID,
		UserMessage: Truncate(lastUserMessage(req.Messages), MaxLoggedMessageChars),
		Status:      StatusSuccess,
	})
	return body, nil
}

func (s *Service) classify(ctx context.Context, err error) error {
	var he *upstream.HTTPError
	switch {
	case errors.As(err, &he) && he.StatusCode == 429:
		s.log.Warn("upstream rate limited", "status", he.StatusCode)
		return ErrRateLimited
	case errors.As(err, &he) && he.StatusCode == 402:
		s.log.Warn("upstream quota exceeded", "status", he.StatusCode)
		return ErrQuotaExceeded
	case errors.As(err, &he):
		s.log.Error("AI gateway error", "status", he.StatusCode, "body", Truncate(he.Body, maxLoggedUpstreamBody))
	case errors.Is(err, upstream.ErrNotConfigured):
		s.log.Error("chat error", "error", err)
	case ctx.Err() != nil:
		s.log.Warn("chat request cancelled before upstream responded", "error", err)
	default:
		s.log.Error("chat error", "error", err)
	}
	return ErrUpstream
}

func Validate(req Request) error {
	if len(req.Messages) == 0 {
		return malformed("messages is required")
	}
	for i, m := range req.Messages {
		switch m.Role {
		case "user", "assistant", "system":
		default:
			return malformed(fmt.Sprintf("messages[%d].role must be user, assistant or system", i))
		}
	}
	return nil
}

func lastUserMessage(messages []upstream.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// Truncate cuts s to at most n characters without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
