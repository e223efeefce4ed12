package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vaultpass/pwgen/internal/config"
	"github.com/vaultpass/pwgen/internal/crypto"
	"github.com/vaultpass/pwgen/internal/generator"
	"github.com/vaultpass/pwgen/internal/repository"
	"github.com/vaultpass/pwgen/internal/settings"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Root flags override the environment for every subcommand.
	rootFlagSet := flag.NewFlagSet("pwgen", flag.ExitOnError)
	registerCommonFlags(rootFlagSet, &cfg)

	rootCmd := &ffcli.Command{
		ShortUsage: "pwgen [flags] <subcommand>",
		ShortHelp:  "Generate passwords and passphrases from a remote generation service",
		LongHelp: "Without a subcommand the interactive form starts.\n\n" +
			"Controls:\n" +
			"  Up/Down, Tab      Move focus\n" +
			"  Left/Right        Adjust the focused option\n" +
			"  Space, Enter      Toggle the focused option\n" +
			"  Ctrl+Enter, ^G    Generate\n" +
			"  Ctrl+C            Copy the focused secret\n" +
			"  Ctrl+S            Toggle saving settings\n" +
			"  Esc, Ctrl+Q       Quit",
		FlagSet: rootFlagSet,
		Subcommands: []*ffcli.Command{
			newTUICmd(&cfg),
			newGenerateCmd(&cfg),
			newSettingsCmd(&cfg),
			newServeCmd(&cfg),
		},
		Exec: func(ctx context.Context, args []string) error {
			return execTUI(ctx, cfg)
		},
	}

	if err := rootCmd.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	if err := rootCmd.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func registerCommonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base path of the generation service (PWGEN_BASE_URL)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Generation request timeout (PWGEN_TIMEOUT)")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Settings store: file, mysql or memory (PWGEN_SETTINGS_STORE)")
	fs.StringVar(&cfg.SettingsPath, "settings-path", cfg.SettingsPath, "Settings file for the file store (PWGEN_SETTINGS_PATH)")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "Settings profile name (PWGEN_PROFILE)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (LOG_LEVEL)")
}

// newLogger writes to stderr, or to w when given.
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return config.NewLogger(w, cfg.LogLevel)
}

func newClient(cfg config.Config) *generator.Client {
	return generator.NewClient(cfg.BaseURL, cfg.Timeout, generator.WithRateLimit(cfg.RPS, cfg.Burst))
}

func newCodec(cfg config.Config) (*settings.Codec, error) {
	key, err := crypto.DeriveKey(cfg.SettingsKey, "settings-codec")
	if err != nil {
		return nil, fmt.Errorf("deriving settings key: %w", err)
	}
	return settings.NewCodec(key)
}

// openStore returns the configured store and a cleanup func.
func openStore(ctx context.Context, cfg config.Config) (settings.Store, string, func(), error) {
	noop := func() {}
	switch cfg.Store {
	case config.StoreMemory:
		return settings.NewMemoryStore(), "memory", noop, nil
	case config.StoreMySQL:
		db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, "", noop, err
		}
		repo, err := repository.NewSettingsRepository(db, cfg.Profile)
		if err != nil {
			db.Close()
			return nil, "", noop, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, "", noop, err
		}
		if n, err := repo.PurgeExpired(ctx); err != nil {
			slog.Warn("purging expired settings failed", "error", err)
		} else if n > 0 {
			slog.Debug("purged expired settings", "count", n)
		}
		return repo, "mysql profile " + cfg.Profile, func() { db.Close() }, nil
	default:
		path := cfg.SettingsPath
		if path == "" {
			path = settings.DefaultPath(cfg.Profile)
		}
		return settings.NewFileStore(path), path, noop, nil
	}
}

func newManager(ctx context.Context, cfg config.Config, logger *slog.Logger) (*settings.Manager, string, func(), error) {
	codec, err := newCodec(cfg)
	if err != nil {
		return nil, "", nil, err
	}
	store, where, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening settings store: %w", err)
	}
	return settings.NewManager(codec, store, settings.WithLogger(logger)), where, cleanup, nil
}
