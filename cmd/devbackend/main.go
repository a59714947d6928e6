package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/devbackend"
	"github.com/dmitrijs2005/launchpad/internal/devbackend/config"
	"github.com/dmitrijs2005/launchpad/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "devbackend stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	store := devbackend.NewStore(nil)
	srv := devbackend.New(store, devbackend.Config{
		Secret:   []byte(cfg.SecretKey),
		TokenTTL: cfg.TokenTTL,
		Logger:   logger,
	})

	if cfg.Seed {
		users, err := devbackend.Seed(store)
		if err != nil {
			return err
		}
		for _, u := range users {
			token, err := srv.IssueToken(u.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%-12s %-18s password=%s\n  token=%s\n", u.Name, u.Email, devbackend.SeedPassword, token)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", cfg.Addr)
		errCh <- srv.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
