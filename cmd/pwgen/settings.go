package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vaultpass/pwgen/internal/config"
)

func newSettingsCmd(cfg *config.Config) *ffcli.Command {
	show := &ffcli.Command{
		Name:       "show",
		ShortUsage: "pwgen settings show",
		ShortHelp:  "Print the stored options",
		FlagSet:    flag.NewFlagSet("pwgen settings show", flag.ExitOnError),
		Exec: func(ctx context.Context, args []string) error {
			return execSettingsShow(ctx, *cfg, os.Stdout)
		},
	}
	clearCmd := &ffcli.Command{
		Name:       "clear",
		ShortUsage: "pwgen settings clear",
		ShortHelp:  "Delete the stored options",
		FlagSet:    flag.NewFlagSet("pwgen settings clear", flag.ExitOnError),
		Exec: func(ctx context.Context, args []string) error {
			return execSettingsClear(ctx, *cfg, os.Stdout)
		},
	}

	return &ffcli.Command{
		Name:        "settings",
		ShortUsage:  "pwgen settings <show|clear>",
		ShortHelp:   "Inspect or remove persisted options",
		FlagSet:     flag.NewFlagSet("pwgen settings", flag.ExitOnError),
		Subcommands: []*ffcli.Command{show, clearCmd},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
}

func execSettingsShow(ctx context.Context, cfg config.Config, w io.Writer) error {
	mgr, where, cleanup, err := newManager(ctx, cfg, newLogger(cfg, nil))
	if err != nil {
		return err
	}
	defer cleanup()

	s, found := mgr.Load(ctx)
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	fmt.Fprintf(w, "store: %s\nsaved: %t\n%s\n", where, found, out)
	return nil
}

func execSettingsClear(ctx context.Context, cfg config.Config, w io.Writer) error {
	mgr, where, cleanup, err := newManager(ctx, cfg, newLogger(cfg, nil))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := mgr.Clear(ctx); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}
	fmt.Fprintf(w, "cleared %s\n", where)
	return nil
}
