// Package tui is the interactive terminal form. It implements every display
// surface the controller drives and feeds key presses back into it.
package tui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/vaultpass/pwgen/internal/clipboard"
	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/secret"
	"github.com/vaultpass/pwgen/internal/service"
	"github.com/vaultpass/pwgen/internal/strength"
)

// Controller is the part of the generation controller the App calls.
type Controller interface {
	Generate(ctx context.Context) error
	HandleChange(ctx context.Context) error
	SetPersistence(ctx context.Context, enabled bool)
	Copy(ctx context.Context, index int) error
}

type toast struct {
	n       notify.Notification
	leaving bool
}

// App owns the screen and all state drawn on it. A nil screen is allowed
// and skips drawing.
type App struct {
	screen tcell.Screen
	logger *slog.Logger

	mu            sync.Mutex
	form          Form
	persist       bool
	pendingChange bool
	loading       bool
	revealText    string
	highlighted   bool
	rating        strength.Rating
	rated         bool
	toast         *toast

	primary *SlotView
	slots   []*SlotView

	ctrl Controller
	wg   sync.WaitGroup
}

// NewApp creates an App showing s. persist is the initial state of the
// save-settings toggle.
func NewApp(screen tcell.Screen, s model.Settings, persist bool, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		screen:  screen,
		logger:  logger,
		form:    NewForm(s),
		persist: persist,
	}
	a.primary = &SlotView{app: a, primary: true}
	for i := 0; i < model.MaxSlots; i++ {
		a.slots = append(a.slots, &SlotView{app: a, index: i})
	}
	return a
}

// Bind attaches the controller. It must be called before Run.
func (a *App) Bind(c Controller) {
	a.ctrl = c
}

// Primary returns the single-value slot.
func (a *App) Primary() *SlotView {
	return a.primary
}

// Slots returns the multi-value slots.
func (a *App) Slots() []*SlotView {
	return a.slots
}

// Settings implements the controller's form source.
func (a *App) Settings() model.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form.Settings()
}

// SetText implements reveal.Display.
func (a *App) SetText(text string) {
	a.update(func() { a.revealText = text })
}

// SetHighlighted implements reveal.Display.
func (a *App) SetHighlighted(on bool) {
	a.update(func() { a.highlighted = on })
}

// SetLoading implements the controller's loading indicator.
func (a *App) SetLoading(on bool) {
	a.update(func() { a.loading = on })
}

// SetStrength implements the controller's strength view.
func (a *App) SetStrength(r strength.Rating, ok bool) {
	a.update(func() { a.rating, a.rated = r, ok })
}

// Show implements notify.Renderer.
func (a *App) Show(n notify.Notification) {
	a.update(func() { a.toast = &toast{n: n} })
}

// Leave implements notify.Renderer.
func (a *App) Leave(id uuid.UUID) {
	a.update(func() {
		if a.toast != nil && a.toast.n.ID == id {
			a.toast.leaving = true
		}
	})
}

// Remove implements notify.Renderer.
func (a *App) Remove(id uuid.UUID) {
	a.update(func() {
		if a.toast != nil && a.toast.n.ID == id {
			a.toast = nil
		}
	})
}

// Copier returns a clipboard copier writing through the terminal (OSC 52).
func (a *App) Copier() clipboard.Copier {
	return clipboard.CopierFunc(func(ctx context.Context, text string) error {
		if a.screen == nil {
			return clipboard.ErrUnavailable
		}
		a.screen.SetClipboard([]byte(text))
		return nil
	})
}

func (a *App) update(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn()
	a.drawLocked()
}

func (a *App) redraw() {
	a.update(func() {})
}

// Run processes terminal events until the user quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.wg.Wait()
	}()

	events := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.redraw()
	a.spawn(ctx, a.ctrl.Generate)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.HandleKey(ctx, ev.Key(), ev.Rune(), ev.Modifiers()) {
					return nil
				}
			case *tcell.EventResize:
				a.screen.Sync()
				a.redraw()
			}
		}
	}
}

// HandleKey applies one key press and reports whether the App should quit.
func (a *App) HandleKey(ctx context.Context, key tcell.Key, r rune, mod tcell.ModMask) bool {
	switch Resolve(key, r, mod) {
	case ActionQuit:
		return true
	case ActionGenerate:
		a.flushChange(ctx)
		a.spawn(ctx, a.ctrl.Generate)
	case ActionCopy:
		if idx, ok := a.copyTarget(); ok {
			a.spawn(ctx, func(ctx context.Context) error { return a.ctrl.Copy(ctx, idx) })
		}
	case ActionTogglePersistence:
		a.togglePersistence(ctx)
	case ActionFocusNext:
		a.move(ctx, 1)
	case ActionFocusPrev:
		a.move(ctx, -1)
	case ActionIncrease:
		a.adjust(ctx, 1)
	case ActionDecrease:
		a.adjust(ctx, -1)
	case ActionToggle:
		a.toggle(ctx)
	case ActionInsert:
		a.insert(ctx, r)
	case ActionBackspace:
		a.editText(func() bool { return a.form.Backspace() })
	}
	return false
}

func (a *App) copyTarget() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch r := a.form.focused(); r.kind {
	case rowPrimary:
		return service.PrimarySlot, true
	case rowSlot:
		return r.slot, true
	}
	return 0, false
}

func (a *App) togglePersistence(ctx context.Context) {
	var enabled bool
	a.update(func() {
		a.persist = !a.persist
		enabled = a.persist
	})
	a.spawn(ctx, func(ctx context.Context) error {
		a.ctrl.SetPersistence(ctx, enabled)
		return nil
	})
}

func (a *App) move(ctx context.Context, delta int) {
	a.flushChange(ctx)
	a.update(func() { a.form.Move(delta) })
}

func (a *App) adjust(ctx context.Context, delta int) {
	var changed, persistRow bool
	a.update(func() {
		persistRow = a.form.focused().kind == rowPersist
		if !persistRow {
			changed = a.form.Adjust(delta)
		}
	})
	switch {
	case persistRow:
		a.togglePersistence(ctx)
	case changed:
		a.spawn(ctx, a.ctrl.HandleChange)
	}
}

func (a *App) toggle(ctx context.Context) {
	var changed, persistRow, text bool
	a.update(func() {
		persistRow = a.form.focused().kind == rowPersist
		text = a.form.EditingText()
		if !persistRow && !text {
			changed = a.form.Toggle()
		}
	})
	switch {
	case persistRow:
		a.togglePersistence(ctx)
	case text:
		a.flushChange(ctx)
	case changed:
		a.spawn(ctx, a.ctrl.HandleChange)
	}
}

func (a *App) insert(ctx context.Context, r rune) {
	a.mu.Lock()
	text := a.form.EditingText()
	a.mu.Unlock()

	if text {
		a.editText(func() bool { return a.form.Insert(r) })
		return
	}
	if r == ' ' {
		a.toggle(ctx)
	}
}

// editText applies a text edit. The change is announced once focus leaves
// the field or Enter is pressed.
func (a *App) editText(edit func() bool) {
	a.update(func() {
		if edit() {
			a.pendingChange = true
		}
	})
}

func (a *App) flushChange(ctx context.Context) {
	a.mu.Lock()
	pending := a.pendingChange
	a.pendingChange = false
	a.mu.Unlock()

	if pending {
		a.spawn(ctx, a.ctrl.HandleChange)
	}
}

func (a *App) spawn(ctx context.Context, fn func(context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := fn(ctx); err != nil {
			a.logger.Debug("action failed", "error", err)
		}
	}()
}

// Wait blocks until every spawned controller call has returned.
func (a *App) Wait() {
	a.wg.Wait()
}

// SlotView is one secret slot on screen. Its value is kept sealed; the
// displayed text of the primary slot comes from the reveal animation.
type SlotView struct {
	app     *App
	primary bool
	index   int
	box     secret.Box

	text        string
	pulseUntil  time.Time
	copiedUntil time.Time
}

func (s *SlotView) SetValue(v string) {
	s.box.Set(v)
	if s.primary {
		return
	}
	s.app.update(func() { s.text = v })
}

func (s *SlotView) Value() string {
	v, err := s.box.Open()
	if err != nil {
		s.app.logger.Error("opening slot failed", "slot", s.index, "error", err)
		return ""
	}
	return v
}

// Pulse marks the slot as freshly updated for d.
func (s *SlotView) Pulse(d time.Duration) {
	s.app.update(func() { s.pulseUntil = time.Now().Add(d) })
	time.AfterFunc(d, s.app.redraw)
}

// MarkCopied shows the copy confirmation for d.
func (s *SlotView) MarkCopied(d time.Duration) {
	s.app.update(func() { s.copiedUntil = time.Now().Add(d) })
	time.AfterFunc(d, s.app.redraw)
}
