package chatclient

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

const (
	FallbackMessage = "Sorry, something went wrong. Please try again or contact SuperFunded support."
	DefaultTimeout  = 120 * time.Second
)

var (
	ErrSendInFlight = errors.New("chatclient: a reply is still streaming")
	ErrTimeout      = errors.New("chatclient: reply timed out")

	errCancelled = errors.New("chatclient: cancelled")
)

// Streamer opens one chat exchange. *Client implements it.
type Streamer interface {
	Stream(ctx context.Context, sessionID string, messages []Message) (io.ReadCloser, error)
}

// State is an immutable snapshot handed to observers.
type State struct {
	Messages []Message
	Loading  bool
}

type ControllerOptions struct {
	// SessionID groups interactions server-side; generated when empty.
	SessionID string
	Timeout   time.Duration
	OnChange  func(State)
}

type Controller struct {
	log       *logger.Logger
	streamer  Streamer
	sessionID string
	timeout   time.Duration
	onChange  func(State)

	mu       sync.Mutex
	messages []Message
	loading  bool
	cancel   context.CancelCauseFunc
}

func NewController(log *logger.Logger, streamer Streamer, opts ControllerOptions) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		sessionID = "session_" + uuid.NewString()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		log:       log.With("component", "ChatController"),
		streamer:  streamer,
		sessionID: sessionID,
		timeout:   timeout,
		onChange:  opts.OnChange,
	}
}

func (c *Controller) SessionID() string { return c.sessionID }

func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Send appends input as a user message and streams the reply into the
// conversation. Blank input is ignored. It returns ErrSendInFlight while a
// previous reply is streaming, context.Canceled when the send was cancelled,
// and the underlying failure otherwise; in that last case the conversation
// already holds FallbackMessage. A deadline on ctx counts as a failure.
func (c *Controller) Send(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	runCtx, stop := context.WithTimeoutCause(runCtx, c.timeout, ErrTimeout)
	defer stop()
	defer cancel(nil)

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	history := slices.Clone(c.messages)
	c.loading = true
	c.cancel = cancel
	c.mu.Unlock()
	c.notify()

	err := c.exchange(runCtx, history)
	return c.finish(runCtx, err)
}

// Cancel aborts the in-flight send, if any. Whatever was already folded stays.
func (c *Controller) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel(errCancelled)
	}
}

// Reset clears the conversation unless a reply is streaming.
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.messages = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

func (c *Controller) exchange(ctx context.Context, history []Message) error {
	body, err := c.streamer.Stream(ctx, c.sessionID, history)
	if err != nil {
		return err
	}
	defer body.Close()

	dec := NewDecoder(body)
	var answer strings.Builder
	for {
		delta, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		answer.WriteString(delta)
		c.fold(answer.String())
	}
}

// fold writes the running answer into the trailing assistant message.
func (c *Controller) fold(snapshot string) {
	c.mu.Lock()
	if n := len(c.messages); n > 0 && c.messages[n-1].Role == RoleAssistant {
		c.messages[n-1].Content = snapshot
	} else {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: snapshot})
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) finish(ctx context.Context, err error) error {
	cause := context.Cause(ctx)
	silent := false
	switch {
	case err == nil:
	case errors.Is(cause, ErrTimeout):
		c.log.Warn("chat reply timed out", "session_id", c.sessionID, "timeout", c.timeout)
		err = ErrTimeout
	case errors.Is(cause, context.DeadlineExceeded):
		c.log.Warn("chat reply deadline exceeded", "session_id", c.sessionID)
		err = cause
	case cause != nil:
		silent = true
		err = context.Canceled
	default:
		c.log.Warn("chat send failed", "session_id", c.sessionID, "error", err)
	}

	c.mu.Lock()
	if err != nil && !silent {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: FallbackMessage})
	}
	c.loading = false
	c.cancel = nil
	c.mu.Unlock()
	c.notify()
	return err
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.mu.Lock()
	st := State{Messages: slices.Clone(c.messages), Loading: c.loading}
	c.mu.Unlock()
	c.onChange(st)
}
