package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"sync"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vaultpass/pwgen/internal/clipboard"
	"github.com/vaultpass/pwgen/internal/config"
	"github.com/vaultpass/pwgen/internal/console"
	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/reveal"
	"github.com/vaultpass/pwgen/internal/secret"
	"github.com/vaultpass/pwgen/internal/service"
)

type generateFlags struct {
	passphrase bool
	password   bool
	length     int
	words      int
	separator  string
	customSep  string
	language   string
	customLang string
	capitalize bool
	save       bool
	copy       bool
	noAnimate  bool
}

// staticForm serves a fixed option snapshot.
type staticForm model.Settings

func (f staticForm) Settings() model.Settings { return model.Settings(f) }

// lastReveal remembers the most recent reveal session so the command can
// wait for it to settle.
type lastReveal struct {
	*reveal.Animator

	mu      sync.Mutex
	session *reveal.Session
}

func (r *lastReveal) Reveal(target string) *reveal.Session {
	s := r.Animator.Reveal(target)
	r.mu.Lock()
	r.session = s
	r.mu.Unlock()
	return s
}

func (r *lastReveal) wait(ctx context.Context) error {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Wait(ctx)
}

func newGenerateCmd(cfg *config.Config) *ffcli.Command {
	var gf generateFlags
	fs := flag.NewFlagSet("pwgen generate", flag.ExitOnError)
	fs.BoolVar(&gf.passphrase, "passphrase", false, "Generate a passphrase")
	fs.BoolVar(&gf.password, "password", false, "Generate a password")
	fs.IntVar(&gf.length, "length", 0, "Password length")
	fs.IntVar(&gf.words, "words", 0, "Passphrase word count")
	fs.StringVar(&gf.separator, "separator", "", "Passphrase separator mode")
	fs.StringVar(&gf.customSep, "custom-separator", "", "Separator character for the custom mode")
	fs.StringVar(&gf.language, "language", "", "Passphrase word list language")
	fs.StringVar(&gf.customLang, "custom-language", "", "Language code for the custom mode")
	fs.BoolVar(&gf.capitalize, "capitalize", false, "Capitalize passphrase words")
	fs.BoolVar(&gf.save, "save", false, "Persist the resulting options")
	fs.BoolVar(&gf.copy, "copy", false, "Copy the result to the clipboard")
	fs.BoolVar(&gf.noAnimate, "no-animate", false, "Print the result without the reveal animation")

	return &ffcli.Command{
		Name:       "generate",
		ShortUsage: "pwgen generate [flags]",
		ShortHelp:  "Generate one secret with the saved options",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return execGenerate(ctx, *cfg, fs, gf)
		},
	}
}

// applyFlags overlays only the flags that were set on s.
func applyFlags(s model.Settings, fs *flag.FlagSet, gf generateFlags) model.Settings {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "passphrase":
			s.Passphrase = gf.passphrase
		case "password":
			s.Passphrase = !gf.password
		case "length":
			s.Length = gf.length
		case "words":
			s.WordCount = gf.words
		case "separator":
			s.Separator = gf.separator
		case "custom-separator":
			s.Separator = model.SeparatorCustom
			s.CustomSeparator = gf.customSep
		case "language":
			s.Language = gf.language
		case "custom-language":
			s.Language = model.LanguageCustom
			s.CustomLanguage = gf.customLang
		case "capitalize":
			s.CapitalizeWords = gf.capitalize
		}
	})
	return s
}

func execGenerate(ctx context.Context, cfg config.Config, fs *flag.FlagSet, gf generateFlags) error {
	secret.CatchInterrupt()
	defer secret.Purge()

	logger := newLogger(cfg, nil)

	mgr, _, cleanup, err := newManager(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	s, _ := mgr.Load(ctx)
	s = applyFlags(s, fs, gf)

	term := console.NewTerminal(os.Stdout, !gf.noAnimate)
	slots := make([]service.Slot, model.MaxSlots)
	for i := range slots {
		slots[i] = console.NewSlot(term, strconv.Itoa(i+1))
	}
	revealer := &lastReveal{Animator: reveal.NewAnimator(term, reveal.WithLogger(logger))}
	primary := console.NewSlot(term, "")

	ctrl, err := service.NewController(service.Deps{
		Form:      staticForm(s),
		Client:    newClient(cfg),
		Primary:   primary,
		Slots:     slots,
		Notifier:  notify.NewSink(term),
		Loading:   term,
		Revealer:  revealer,
		Persister: mgr,
		Copier:    clipboard.System(nil),
		Strength:  term,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if gf.save {
		ctrl.SetPersistence(ctx, true)
	}
	if err := ctrl.Generate(ctx); err != nil {
		return err
	}
	if err := revealer.wait(ctx); err != nil {
		return err
	}

	if gf.copy {
		index := service.PrimarySlot
		if primary.Value() == "" {
			index = 0
		}
		return ctrl.Copy(ctx, index)
	}
	return nil
}
