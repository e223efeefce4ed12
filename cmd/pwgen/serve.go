package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vaultpass/pwgen/internal/config"
	"github.com/vaultpass/pwgen/internal/handler"
	"github.com/vaultpass/pwgen/internal/settings"
)

func newServeCmd(cfg *config.Config) *ffcli.Command {
	fs := flag.NewFlagSet("pwgen serve", flag.ExitOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Listen port (PORT)")
	fs.Float64Var(&cfg.RPS, "rps", cfg.RPS, "Generate requests per second per client (PWGEN_RPS)")
	fs.IntVar(&cfg.Burst, "burst", cfg.Burst, "Generate request burst per client (PWGEN_BURST)")

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "pwgen serve [flags]",
		ShortHelp:  "Serve the form API over HTTP with cookie-backed settings",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return execServe(ctx, *cfg)
		},
	}
}

func execServe(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg, nil)

	codec, err := newCodec(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := handler.NewRouter(ctx, handler.RouterConfig{
		Generator: handler.NewGeneratorHandler(newClient(cfg)),
		Settings:  handler.NewSettingsHandler(codec, settings.DefaultStoreOptions()),
		RPS:       cfg.RPS,
		Burst:     cfg.Burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
