package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

type capturedRequest struct {
	Auth string
	Body chatRequest
}

// sseServer writes each chunk followed by a flush. When hold is non-nil the
// handler blocks after the chunks until the client goes away or hold closes.
func sseServer(t *testing.T, chunks []string, hold chan struct{}) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		reqs = append(reqs, capturedRequest{Auth: r.Header.Get("Authorization"), Body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fl := w.(http.Flusher)
		for _, c := range chunks {
			_, _ = w.Write([]byte(c))
			fl.Flush()
		}
		if hold != nil {
			select {
			case <-r.Context().Done():
			case <-hold:
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestController(t *testing.T, url string, opts ControllerOptions) *Controller {
	t.Helper()
	client, err := NewClient(url, "pk_test")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewController(nil, client, opts)
}

type stateLog struct {
	mu     sync.Mutex
	states []State
}

func (l *stateLog) record(s State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) all() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.states...)
}

func TestController_StreamsReplyIntoConversation(t *testing.T) {
	srv, reqs := sseServer(t, []string{event("Hi"), event(" there"), "data: [DONE]\n\n"}, nil)
	ctrl := newTestController(t, srv.URL, ControllerOptions{SessionID: "sess-a"})

	if err := ctrl.Send(context.Background(), "  Hello "); err != nil {
		t.Fatalf("Send: %v", err)
	}
	want := []Message{{Role: RoleUser, Content: "Hello"}, {Role: RoleAssistant, Content: "Hi there"}}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	if ctrl.Loading() {
		t.Fatalf("loading must be cleared")
	}
	if len(*reqs) != 1 {
		t.Fatalf("requests=%d", len(*reqs))
	}
	got := (*reqs)[0]
	if got.Auth != "Bearer pk_test" || got.Body.SessionID != "sess-a" {
		t.Fatalf("request=%+v", got)
	}
	if !reflect.DeepEqual(got.Body.Messages, []Message{{Role: RoleUser, Content: "Hello"}}) {
		t.Fatalf("history=%+v", got.Body.Messages)
	}
}

func TestController_SendsFullHistory(t *testing.T) {
	srv, reqs := sseServer(t, []string{event("ok"), "data: [DONE]\n\n"}, nil)
	ctrl := newTestController(t, srv.URL, ControllerOptions{})

	for _, in := range []string{"first", "second"} {
		if err := ctrl.Send(context.Background(), in); err != nil {
			t.Fatalf("Send(%q): %v", in, err)
		}
	}
	second := (*reqs)[1].Body
	want := []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "ok"},
		{Role: RoleUser, Content: "second"},
	}
	if !reflect.DeepEqual(second.Messages, want) {
		t.Fatalf("history=%+v", second.Messages)
	}
	if second.SessionID == "" || second.SessionID != (*reqs)[0].Body.SessionID {
		t.Fatalf("session id must be stable per controller, got %q and %q", (*reqs)[0].Body.SessionID, second.SessionID)
	}
}

func TestController_DeltaAccumulationAndLoading(t *testing.T) {
	deltas := []string{"Our ", "accounts ", "start ", "at ", "$49 🎯"}
	var chunks []string
	for _, d := range deltas {
		ev := event(d)
		mid := len(ev) / 2
		chunks = append(chunks, ev[:mid], ev[mid:])
	}
	chunks = append(chunks, "data: [DONE]\n\n")
	srv, _ := sseServer(t, chunks, nil)

	var log stateLog
	ctrl := newTestController(t, srv.URL, ControllerOptions{OnChange: log.record})
	if err := ctrl.Send(context.Background(), "price?"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	states := log.all()
	if len(states) < 2 {
		t.Fatalf("states=%d", len(states))
	}
	for i, s := range states[:len(states)-1] {
		if !s.Loading {
			t.Fatalf("state %d: loading cleared before the send finished", i)
		}
		last := s.Messages[len(s.Messages)-1]
		if last.Role == RoleAssistant && !strings.HasPrefix(strings.Join(deltas, ""), last.Content) {
			t.Fatalf("state %d: assistant content %q is not a prefix of the answer", i, last.Content)
		}
	}
	final := states[len(states)-1]
	if final.Loading {
		t.Fatalf("final state still loading")
	}
	if len(final.Messages) != 2 || final.Messages[1].Content != strings.Join(deltas, "") {
		t.Fatalf("final=%+v", final.Messages)
	}
}

func TestController_RateLimitedAppendsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Rate limit exceeded. Please try again in a moment."}`))
	}))
	t.Cleanup(srv.Close)

	var log stateLog
	ctrl := newTestController(t, srv.URL, ControllerOptions{OnChange: log.record})
	err := ctrl.Send(context.Background(), "Hello")

	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err=%v", err)
	}
	if he.Message != "Rate limit exceeded. Please try again in a moment." {
		t.Fatalf("message=%q", he.Message)
	}
	want := []Message{{Role: RoleUser, Content: "Hello"}, {Role: RoleAssistant, Content: FallbackMessage}}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	states := log.all()
	if !states[0].Loading || states[len(states)-1].Loading {
		t.Fatalf("loading transitions wrong: %+v", states)
	}
}

func TestController_CancelKeepsPartialReply(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	srv, _ := sseServer(t, []string{event("Wel")}, hold)

	var ctrl *Controller
	ctrl = newTestController(t, srv.URL, ControllerOptions{OnChange: func(s State) {
		n := len(s.Messages)
		if s.Loading && n > 0 && s.Messages[n-1].Content == "Wel" {
			ctrl.Cancel()
		}
	}})

	err := ctrl.Send(context.Background(), "Hi")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	want := []Message{{Role: RoleUser, Content: "Hi"}, {Role: RoleAssistant, Content: "Wel"}}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	if ctrl.Loading() {
		t.Fatalf("loading must be cleared after cancel")
	}
}

func TestController_ParentCancelIsSilent(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	srv, _ := sseServer(t, nil, hold)
	ctrl := newTestController(t, srv.URL, ControllerOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	if err := ctrl.Send(ctx, "Hi"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if got := ctrl.Messages(); len(got) != 1 {
		t.Fatalf("no fallback expected, got %+v", got)
	}
}

func TestController_TimeoutIsFailure(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	srv, _ := sseServer(t, []string{event("slow")}, hold)
	ctrl := newTestController(t, srv.URL, ControllerOptions{Timeout: 50 * time.Millisecond})

	if err := ctrl.Send(context.Background(), "Hi"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err=%v", err)
	}
	want := []Message{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "slow"},
		{Role: RoleAssistant, Content: FallbackMessage},
	}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	if ctrl.Loading() {
		t.Fatalf("loading must be cleared after timeout")
	}
}

func TestController_ParentDeadlineIsFailure(t *testing.T) {
	hold := make(chan struct{})
	defer close(hold)
	srv, _ := sseServer(t, []string{event("Wel")}, hold)
	ctrl := newTestController(t, srv.URL, ControllerOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := ctrl.Send(ctx, "Hello"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", err)
	}
	want := []Message{
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Wel"},
		{Role: RoleAssistant, Content: FallbackMessage},
	}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	if ctrl.Loading() {
		t.Fatalf("loading must be cleared after deadline")
	}
}

func TestController_RejectsConcurrentSend(t *testing.T) {
	hold := make(chan struct{})
	srv, reqs := sseServer(t, []string{event("one")}, hold)

	started := make(chan struct{})
	var once sync.Once
	ctrl := newTestController(t, srv.URL, ControllerOptions{OnChange: func(s State) {
		if n := len(s.Messages); n > 0 && s.Messages[n-1].Content == "one" {
			once.Do(func() { close(started) })
		}
	}})

	done := make(chan error, 1)
	go func() { done <- ctrl.Send(context.Background(), "first") }()
	<-started

	if err := ctrl.Send(context.Background(), "second"); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("err=%v", err)
	}
	if err := ctrl.Reset(); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("reset err=%v", err)
	}
	close(hold)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if len(*reqs) != 1 {
		t.Fatalf("requests=%d", len(*reqs))
	}
	want := []Message{{Role: RoleUser, Content: "first"}, {Role: RoleAssistant, Content: "one"}}
	if got := ctrl.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages=%+v", got)
	}
	if err := ctrl.Reset(); err != nil || len(ctrl.Messages()) != 0 {
		t.Fatalf("reset: %v, %+v", err, ctrl.Messages())
	}
}

func TestController_BlankInputIsNoop(t *testing.T) {
	var log stateLog
	ctrl := NewController(nil, nil, ControllerOptions{OnChange: log.record})
	if err := ctrl.Send(context.Background(), " \n\t"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(ctrl.Messages()) != 0 || len(log.all()) != 0 {
		t.Fatalf("blank input changed state")
	}
}

func TestController_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ctrl := newTestController(t, url, ControllerOptions{})
	if err := ctrl.Send(context.Background(), "Hi"); err == nil {
		t.Fatalf("expected an error")
	}
	got := ctrl.Messages()
	if len(got) != 2 || got[1].Content != FallbackMessage {
		t.Fatalf("messages=%+v", got)
	}
}
