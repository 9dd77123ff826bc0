package main

import (
	"fmt"
	"sort"
	"strings"
)

// quickActions mirror the shortcut buttons on the web widget.
var quickActions = map[string]struct {
	Label   string
	Message string
}{
	"/prices":      {"Account Prices", "What are the SuperFunded account prices and plans?"},
	"/drawdown":    {"Drawdown Rules", "Explain the daily and overall drawdown rules with examples."},
	"/consistency": {"Consistency Rule", "What is the consistency rule and why does it exist?"},
	"/strategies":  {"Allowed Strategies", "What trading strategies are allowed and which are not?"},
	"/payouts":     {"Payout Rules", "How do payouts work and what are the eligibility rules?"},
	"/reset":       {"Account Reset", "What is the reset and retry policy?"},
}

type commandKind int

const (
	cmdSend commandKind = iota
	cmdHelp
	cmdClear
	cmdQuit
	cmdUnknown
)

type command struct {
	kind commandKind
	text string
}

func parseInput(input string) command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return command{kind: cmdSend, text: input}
	}
	name := strings.ToLower(strings.Fields(input)[0])
	if qa, ok := quickActions[name]; ok {
		return command{kind: cmdSend, text: qa.Message}
	}
	switch name {
	case "/help", "/?":
		return command{kind: cmdHelp}
	case "/clear", "/new":
		return command{kind: cmdClear}
	case "/quit", "/exit":
		return command{kind: cmdQuit}
	}
	return command{kind: cmdUnknown, text: name}
}

func helpText() string {
	names := make([]string, 0, len(quickActions))
	for name := range quickActions {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Quick questions:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-14s %s\n", name, quickActions[name].Label)
	}
	b.WriteString("Other:\n")
	b.WriteString("  /clear         start a new conversation\n")
	b.WriteString("  /quit          exit\n")
	b.WriteString("  Ctrl+C         stop the current answer\n")
	return b.String()
}
