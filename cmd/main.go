package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yungbote/superfunded-backend/internal/app"
	"github.com/yungbote/superfunded-backend/internal/auth"
	"github.com/yungbote/superfunded-backend/internal/config"
)

func main() {
	issueFor := flag.String("issue-admin-token", "", "print an admin bearer token for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 12*time.Hour, "lifetime of an issued admin token")
	flag.Parse()

	if s := strings.TrimSpace(*issueFor); s != "" {
		if err := issueAdminToken(s, *tokenTTL); err != nil {
			fmt.Fprintf(os.Stderr, "issue admin token: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	err = a.Run(ctx)
	if err != nil {
		a.Log.Error("server exited", "error", err)
	}
	a.Close()
	if err != nil {
		os.Exit(1)
	}
}

func issueAdminToken(subject string, ttl time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET (auth.jwt_secret) is not set")
	}
	tok, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret).Issue(subject, auth.RoleAdmin, ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
