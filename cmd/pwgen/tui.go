package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vaultpass/pwgen/internal/clipboard"
	"github.com/vaultpass/pwgen/internal/config"
	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/reveal"
	"github.com/vaultpass/pwgen/internal/secret"
	"github.com/vaultpass/pwgen/internal/service"
	"github.com/vaultpass/pwgen/internal/tui"
)

func newTUICmd(cfg *config.Config) *ffcli.Command {
	fs := flag.NewFlagSet("pwgen tui", flag.ExitOnError)
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file (PWGEN_LOG_FILE)")

	return &ffcli.Command{
		Name:       "tui",
		ShortUsage: "pwgen tui [flags]",
		ShortHelp:  "Run the interactive form (default)",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return execTUI(ctx, *cfg)
		},
	}
}

func execTUI(ctx context.Context, cfg config.Config) error {
	secret.CatchInterrupt()
	defer secret.Purge()

	// The screen owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	mgr, where, cleanup, err := newManager(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	s, found := mgr.Load(ctx)
	logger.Info("settings loaded", "store", where, "found", found)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	screen.Clear()
	screen.HideCursor()

	app := tui.NewApp(screen, s, found, logger)

	slots := make([]service.Slot, 0, len(app.Slots()))
	for _, sv := range app.Slots() {
		slots = append(slots, sv)
	}

	ctrl, err := service.NewController(service.Deps{
		Form:      app,
		Client:    newClient(cfg),
		Primary:   app.Primary(),
		Slots:     slots,
		Notifier:  notify.NewSink(app),
		Loading:   app,
		Revealer:  reveal.NewAnimator(app, reveal.WithLogger(logger)),
		Persister: mgr,
		Copier:    clipboard.System(app.Copier()),
		Strength:  app,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	app.Bind(ctrl)

	return app.Run(ctx)
}
