package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gatorpay/gatorpay-go/internal/api"
	"github.com/gatorpay/gatorpay-go/internal/config"
	"github.com/gatorpay/gatorpay-go/internal/logging"
	"github.com/gatorpay/gatorpay-go/internal/session"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	tokenPath := cfg.TokenFile
	if tokenPath == "" {
		tokenPath, err = session.DefaultTokenPath()
		if err != nil {
			logger.Error("resolve token path", "error", err)
			os.Exit(1)
		}
	}
	tokens := session.NewTokenFile(tokenPath)

	// The client reads the bearer token through the store; the store talks
	// to the backend through the client. Wire the cycle with a late-bound
	// token source.
	var store *session.Store
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	}, logger)
	store = session.NewStore(tokens, client, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Restore(ctx); err != nil {
		logger.Info("no session restored", "error", err)
	}

	app := newApp(client, store, os.Stdin, os.Stdout)
	if err := app.run(ctx); err != nil {
		logger.Error("client error", "error", err)
		os.Exit(1)
	}
}
