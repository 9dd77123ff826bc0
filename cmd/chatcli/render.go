package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/superfunded-backend/internal/chatclient"
)

var (
	brandPrimary = lipgloss.Color("#22D3EE")
	textMuted    = lipgloss.Color("#6B7280")

	labelStyle = lipgloss.NewStyle().Foreground(brandPrimary).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(textMuted)

	assistantLabel = labelStyle.Render("SuperFunded AI")
)

// renderer prints conversation snapshots incrementally. Snapshots are
// cumulative, so only the unseen suffix of the trailing answer is written.
// User messages are not echoed; the prompt already shows them.
type renderer struct {
	mu    sync.Mutex
	out   io.Writer
	seen  int  // messages already accounted for
	shown int  // bytes of messages[seen-1] already written
	open  bool // an answer is being written and has no closing newline yet
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

func (r *renderer) render(st chatclient.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(st.Messages) < r.seen {
		r.seen, r.shown, r.open = 0, 0, false
	}
	if r.open {
		if m := st.Messages[r.seen-1]; len(m.Content) > r.shown {
			io.WriteString(r.out, m.Content[r.shown:])
			r.shown = len(m.Content)
		}
	}
	for r.seen < len(st.Messages) {
		m := st.Messages[r.seen]
		r.seen++
		r.closeAnswer()
		r.shown = len(m.Content)
		if m.Role != chatclient.RoleAssistant {
			continue
		}
		fmt.Fprintf(r.out, "%s\n%s", assistantLabel, m.Content)
		r.open = true
	}
	if !st.Loading {
		r.closeAnswer()
	}
}

func (r *renderer) closeAnswer() {
	if r.open {
		io.WriteString(r.out, "\n")
		r.open = false
	}
}
