package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/yungbote/superfunded-backend/internal/chatclient"
	"github.com/yungbote/superfunded-backend/internal/platform/envutil"
	"github.com/yungbote/superfunded-backend/internal/platform/logger"
)

func main() {
	endpoint := flag.String("endpoint", envutil.String("http://localhost:8080/api/chat", "SF_CHAT_URL"), "chat endpoint URL")
	key := flag.String("key", envutil.String("", "CHAT_PUBLIC_KEY"), "public client key sent as the bearer token")
	timeout := flag.Duration("timeout", chatclient.DefaultTimeout, "upper bound for one answer")
	flag.Parse()

	log, err := logger.New(envutil.String("test", "LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client, err := chatclient.NewClient(*endpoint, *key, chatclient.WithClientInfo("superfunded-chatcli"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	out := newRenderer(os.Stdout)
	ctrl := chatclient.NewController(log, client, chatclient.ControllerOptions{
		Timeout:  *timeout,
		OnChange: out.render,
	})

	if err := run(ctrl); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctrl *chatclient.Controller) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	// Ctrl+C outside the prompt stops the answer being streamed.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			if ctrl.Loading() {
				ctrl.Cancel()
			}
		}
	}()

	fmt.Println(assistantLabel + dimStyle.Render("  prop-firm support. Type /help for shortcuts."))
	fmt.Println()

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			fmt.Println()
			return nil
		}

		cmd := parseInput(input)
		switch cmd.kind {
		case cmdQuit:
			return nil
		case cmdHelp:
			fmt.Print(helpText())
			continue
		case cmdClear:
			if err := ctrl.Reset(); err != nil {
				fmt.Println(dimStyle.Render(err.Error()))
			}
			continue
		case cmdUnknown:
			fmt.Println(dimStyle.Render("unknown command " + cmd.text + ", try /help"))
			continue
		}
		if cmd.text == "" {
			continue
		}
		line.AppendHistory(input)

		started := time.Now()
		err = ctrl.Send(context.Background(), cmd.text)
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Println(dimStyle.Render("\n[stopped]"))
		case err != nil:
			fmt.Println(dimStyle.Render(fmt.Sprintf("(%v)", err)))
		default:
			fmt.Println(dimStyle.Render(fmt.Sprintf("(%s)", time.Since(started).Round(100*time.Millisecond))))
		}
	}
}
