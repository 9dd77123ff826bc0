package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/yungbote/superfunded-backend/internal/platform/apierr"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
	"github.com/yungbote/superfunded-backend/internal/upstream"
)

type staticPrompter string

func (p staticPrompter) Compose(context.Context) string { return string(p) }

type fakeEngine struct {
	body  string
	err   error
	calls int
	got   []upstream.Message
	model string
}

func (e *fakeEngine) OpenStream(_ context.Context, model string, messages []upstream.Message) (io.ReadCloser, error) {
	e.calls++
	e.got = messages
	e.model = model
	if e.err != nil {
		return nil, e.err
	}
	return io.NopCloser(strings.NewReader(e.body)), nil
}

type captureRecorder struct {
	mu  sync.Mutex
	ins []Interaction
}

func (r *captureRecorder) Record(in Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ins = append(r.ins, in)
}

func TestStream_PrependsSystemPromptAndRecords(t *testing.T) {
	eng := &fakeEngine{body: "data: [DONE]\n\n"}
	rec := &captureRecorder{}
	svc := NewService(logger.Nop(), staticPrompter("SYSTEM"), eng, "model-x", rec)

	long := strings.Repeat("é", MaxLoggedMessageChars+20)
	body, err := svc.Stream(context.Background(), Request{
		Messages: []upstream.Message{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "answer"},
			{Role: "user", Content: long},
		},
		SessionID: "sess-1",
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	raw, _ := io.ReadAll(body)
	if string(raw) != "data: [DONE]\n\n" {
		t.Fatalf("body=%q", raw)
	}

	if eng.model != "model-x" {
		t.Fatalf("model=%q", eng.model)
	}
	if len(eng.got) != 4 || eng.got[0].Role != "system" || eng.got[0].Content != "SYSTEM" {
		t.Fatalf("upstream messages=%+v", eng.got)
	}
	if len(rec.ins) != 1 {
		t.Fatalf("recorded=%d", len(rec.ins))
	}
	in := rec.ins[0]
	if in.SessionID != "sess-1" || in.Status != StatusSuccess {
		t.Fatalf("interaction=%+v", in)
	}
	if n := len([]rune(in.UserMessage)); n != MaxLoggedMessageChars {
		t.Fatalf("logged message chars=%d", n)
	}
}

func TestStream_SynthesizesSessionID(t *testing.T) {
	rec := &captureRecorder{}
	svc := NewService(logger.Nop(), staticPrompter("S"), &fakeEngine{}, "m", rec)
	if _, err := svc.Stream(context.Background(), Request{Messages: []upstream.Message{{Role: "user", Content: "hi"}}}); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(rec.ins) != 1 || !strings.HasPrefix(rec.ins[0].SessionID, "anon_") {
		t.Fatalf("interaction=%+v", rec.ins)
	}
}

func TestStream_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		want       error
		wantStatus int
		wantMsg    string
	}{
		{"rate limited", &upstream.HTTPError{StatusCode: 429, Body: "slow down"}, ErrRateLimited, 429, "Rate limit exceeded. Please try again in a moment."},
		{"quota", &upstream.HTTPError{StatusCode: 402}, ErrQuotaExceeded, 402, "AI usage limit reached. Please try again later."},
		{"other status", &upstream.HTTPError{StatusCode: 503, Body: "secret upstream detail"}, ErrUpstream, 500, "AI service error"},
		{"not configured", upstream.ErrNotConfigured, ErrUpstream, 500, "AI service error"},
		{"transport", errors.New("dial tcp: refused"), ErrUpstream, 500, "AI service error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &captureRecorder{}
			svc := NewService(logger.Nop(), staticPrompter("S"), &fakeEngine{err: tc.err}, "m", rec)
			_, err := svc.Stream(context.Background(), Request{Messages: []upstream.Message{{Role: "user", Content: "hi"}}})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err=%v want %v", err, tc.want)
			}
			if got := apierr.StatusOf(err); got != tc.wantStatus {
				t.Fatalf("status=%d want %d", got, tc.wantStatus)
			}
			if err.Error() != tc.wantMsg {
				t.Fatalf("message=%q", err.Error())
			}
			if len(rec.ins) != 0 {
				t.Fatalf("failed requests must not be recorded")
			}
		})
	}
}

func TestStream_MalformedRequest(t *testing.T) {
	eng := &fakeEngine{}
	svc := NewService(logger.Nop(), staticPrompter("S"), eng, "m", nil)

	for _, req := range []Request{
		{},
		{Messages: []upstream.Message{{Role: "tool", Content: "x"}}},
	} {
		_, err := svc.Stream(context.Background(), req)
		if !errors.Is(err, ErrMalformedRequest) {
			t.Fatalf("err=%v want malformed", err)
		}
		if apierr.StatusOf(err) != 400 {
			t.Fatalf("status=%d", apierr.StatusOf(err))
		}
	}
	if eng.calls != 0 {
		t.Fatalf("upstream called for malformed request")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
