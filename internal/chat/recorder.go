package chat

import (
	"context"
	"sync"
	"time"

	types "github.com/yungbote/superfunded-backend/internal/domain/knowledge"
	"github.com/yungbote/superfunded-backend/internal/platform/dbctx"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

// Interaction is one accepted chat request as it is logged.
type Interaction struct {
	SessionID   string
	UserMessage string
	Status      string
}

// Recorder accepts interactions without blocking the caller.
type Recorder interface {
	Record(in Interaction)
}

type NopRecorder struct{}

func (NopRecorder) Record(Interaction) {}

type ChatLogWriter interface {
	Create(dbc dbctx.Context, row *types.ChatLog) error
}

type RecorderOptions struct {
	QueueSize int
	Workers   int
	// Timeout bounds each write.
	Timeout time.Duration
}

// AsyncRecorder writes interactions from a bounded queue on its own workers.
// A full queue drops the interaction; write failures are logged and otherwise ignored.
type AsyncRecorder struct {
	log     *logger.Logger
	writer  ChatLogWriter
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Interaction
	wg     sync.WaitGroup
}

func NewAsyncRecorder(log *logger.Logger, writer ChatLogWriter, opts RecorderOptions) *AsyncRecorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	r := &AsyncRecorder{
		log:     log.With("service", "InteractionRecorder"),
		writer:  writer,
		timeout: opts.Timeout,
		queue:   make(chan Interaction, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		r.wg.Add(1)
		go r.run()
	}
	return r
}

func (r *AsyncRecorder) Record(in Interaction) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Warn("interaction dropped after shutdown", "session_id", in.SessionID)
		return
	}
	select {
	case r.queue <- in:
	default:
		r.log.Warn("interaction queue full; dropping", "session_id", in.SessionID)
	}
}

func (r *AsyncRecorder) run() {
	defer r.wg.Done()
	for in := range r.queue {
		r.write(in)
	}
}

func (r *AsyncRecorder) write(in Interaction) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("interaction write panicked", "panic", p)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	err := r.writer.Create(dbctx.Context{Ctx: ctx}, &types.ChatLog{
		SessionID:        in.SessionID,
		UserMessage:      in.UserMessage,
		AiResponseStatus: in.Status,
	})
	if err != nil {
		r.log.Warn("interaction write failed", "session_id", in.SessionID, "error", err)
	}
}

// Close stops accepting interactions and waits for queued ones to be written or ctx to end.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
