package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/pwgen/internal/model"
	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/service"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want Action
	}{
		{name: "ctrl enter", key: tcell.KeyEnter, mod: tcell.ModCtrl, want: ActionGenerate},
		{name: "cmd enter", key: tcell.KeyEnter, mod: tcell.ModMeta, want: ActionGenerate},
		{name: "plain enter", key: tcell.KeyEnter, want: ActionToggle},
		{name: "ctrl g", key: tcell.KeyCtrlG, mod: tcell.ModCtrl, want: ActionGenerate},
		{name: "ctrl c", key: tcell.KeyCtrlC, mod: tcell.ModCtrl, want: ActionCopy},
		{name: "cmd c", key: tcell.KeyRune, r: 'c', mod: tcell.ModMeta, want: ActionCopy},
		{name: "ctrl s", key: tcell.KeyCtrlS, mod: tcell.ModCtrl, want: ActionTogglePersistence},
		{name: "escape", key: tcell.KeyEscape, want: ActionQuit},
		{name: "ctrl q", key: tcell.KeyCtrlQ, mod: tcell.ModCtrl, want: ActionQuit},
		{name: "down", key: tcell.KeyDown, want: ActionFocusNext},
		{name: "tab", key: tcell.KeyTab, want: ActionFocusNext},
		{name: "up", key: tcell.KeyUp, want: ActionFocusPrev},
		{name: "right", key: tcell.KeyRight, want: ActionIncrease},
		{name: "left", key: tcell.KeyLeft, want: ActionDecrease},
		{name: "backspace", key: tcell.KeyBackspace2, want: ActionBackspace},
		{name: "plain rune", key: tcell.KeyRune, r: 'x', want: ActionInsert},
		{name: "cmd other rune", key: tcell.KeyRune, r: 'x', mod: tcell.ModMeta, want: ActionNone},
		{name: "function key", key: tcell.KeyF5, want: ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.key, tt.r, tt.mod))
		})
	}
}

func labels(f *Form) []string {
	var out []string
	for _, r := range f.rows() {
		if r.kind == rowField {
			out = append(out, r.field.label)
		}
	}
	return out
}

func focusLabel(t *testing.T, f *Form, label string) {
	t.Helper()
	for i, r := range f.rows() {
		if r.kind == rowField && r.field.label == label {
			f.focus = i
			return
		}
	}
	t.Fatalf("no visible field %q", label)
}

func TestFormVisibleFields(t *testing.T) {
	f := NewForm(model.DefaultSettings())
	assert.Contains(t, labels(&f), "Length")
	assert.NotContains(t, labels(&f), "Word count")

	focusLabel(t, &f, "Passphrase mode")
	require.True(t, f.Toggle())
	assert.True(t, f.Settings().Passphrase)
	assert.NotContains(t, labels(&f), "Length")
	assert.Contains(t, labels(&f), "Word count")
	assert.NotContains(t, labels(&f), "Custom separator")
	assert.NotContains(t, labels(&f), "Custom language")

	focusLabel(t, &f, "Separator")
	f.Adjust(-1)
	assert.Equal(t, model.SeparatorCustom, f.Settings().Separator)
	assert.Contains(t, labels(&f), "Custom separator")
}

func TestFormNumberClamp(t *testing.T) {
	s := model.DefaultSettings()
	s.Length = MaxLength
	f := NewForm(s)
	focusLabel(t, &f, "Length")

	assert.False(t, f.Adjust(1))
	assert.Equal(t, MaxLength, f.Settings().Length)
	assert.True(t, f.Adjust(-1))
	assert.Equal(t, MaxLength-1, f.Settings().Length)
}

func TestFormChoiceCycles(t *testing.T) {
	s := model.DefaultSettings()
	s.Passphrase = true
	f := NewForm(s)
	focusLabel(t, &f, "Language")

	for range model.Languages {
		f.Adjust(1)
	}
	assert.Equal(t, "en", f.Settings().Language)
}

func TestFormTextEditing(t *testing.T) {
	s := model.DefaultSettings()
	s.Passphrase = true
	s.Separator = model.SeparatorCustom
	s.Language = model.LanguageCustom
	f := NewForm(s)

	focusLabel(t, &f, "Custom separator")
	require.True(t, f.EditingText())
	f.Insert('+')
	f.Insert('~')
	assert.Equal(t, "~", f.Settings().CustomSeparator)

	focusLabel(t, &f, "Custom language")
	for _, r := range "ga" {
		f.Insert(r)
	}
	assert.True(t, f.Backspace())
	assert.Equal(t, "g", f.Settings().CustomLanguage)
	assert.True(t, f.Backspace())
	assert.False(t, f.Backspace())
}

func TestFormMoveWraps(t *testing.T) {
	f := NewForm(model.DefaultSettings())
	n := len(f.rows())

	f.Move(-1)
	assert.Equal(t, n-1, f.focus)
	assert.Equal(t, rowSlot, f.focused().kind)
	f.Move(1)
	assert.Equal(t, 0, f.focus)
}

type fakeController struct {
	mu       sync.Mutex
	generate int
	changes  int
	persist  []bool
	copies   []int
}

func (c *fakeController) Generate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generate++
	return nil
}

func (c *fakeController) HandleChange(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes++
	return nil
}

func (c *fakeController) SetPersistence(ctx context.Context, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persist = append(c.persist, enabled)
}

func (c *fakeController) Copy(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copies = append(c.copies, index)
	return nil
}

func newTestApp() (*App, *fakeController) {
	app := NewApp(nil, model.DefaultSettings(), false, nil)
	ctrl := &fakeController{}
	app.Bind(ctrl)
	return app, ctrl
}

func focusRow(t *testing.T, app *App, kind rowKind) {
	t.Helper()
	for i, r := range app.form.rows() {
		if r.kind == kind {
			app.form.focus = i
			return
		}
	}
	t.Fatalf("no row of kind %d", kind)
}

func TestAppCopyOnlyFromSecretRows(t *testing.T) {
	app, ctrl := newTestApp()
	ctx := context.Background()

	app.HandleKey(ctx, tcell.KeyCtrlC, 0, tcell.ModCtrl)
	app.Wait()
	assert.Empty(t, ctrl.copies)

	focusRow(t, app, rowPrimary)
	app.HandleKey(ctx, tcell.KeyCtrlC, 0, tcell.ModCtrl)
	app.HandleKey(ctx, tcell.KeyDown, 0, 0)
	app.HandleKey(ctx, tcell.KeyCtrlC, 0, tcell.ModCtrl)
	app.Wait()

	assert.ElementsMatch(t, []int{service.PrimarySlot, 0}, ctrl.copies)
}

func TestAppOptionChangeTriggersHandleChange(t *testing.T) {
	app, ctrl := newTestApp()
	ctx := context.Background()
	focusLabel(t, &app.form, "Length")

	app.HandleKey(ctx, tcell.KeyRight, 0, 0)
	app.Wait()

	assert.Equal(t, 1, ctrl.changes)
	assert.Equal(t, 13, app.Settings().Length)
}

func TestAppTextChangeDeferredUntilFocusLeaves(t *testing.T) {
	s := model.DefaultSettings()
	s.Passphrase = true
	s.Language = model.LanguageCustom
	app := NewApp(nil, s, false, nil)
	ctrl := &fakeController{}
	app.Bind(ctrl)
	ctx := context.Background()
	focusLabel(t, &app.form, "Custom language")

	app.HandleKey(ctx, tcell.KeyRune, 'g', 0)
	app.HandleKey(ctx, tcell.KeyRune, ' ', 0)
	app.HandleKey(ctx, tcell.KeyRune, 'a', 0)
	app.Wait()
	assert.Equal(t, 0, ctrl.changes)
	assert.Equal(t, "g a", app.Settings().CustomLanguage)

	app.HandleKey(ctx, tcell.KeyDown, 0, 0)
	app.Wait()
	assert.Equal(t, 1, ctrl.changes)
}

func TestAppTogglePersistence(t *testing.T) {
	app, ctrl := newTestApp()
	ctx := context.Background()

	app.HandleKey(ctx, tcell.KeyCtrlS, 0, tcell.ModCtrl)
	app.Wait()
	focusRow(t, app, rowPersist)
	app.HandleKey(ctx, tcell.KeyRune, ' ', 0)
	app.Wait()

	assert.Equal(t, []bool{true, false}, ctrl.persist)
	assert.Equal(t, 0, ctrl.changes)
}

func TestAppQuitAndGenerate(t *testing.T) {
	app, ctrl := newTestApp()
	ctx := context.Background()

	assert.False(t, app.HandleKey(ctx, tcell.KeyCtrlG, 0, tcell.ModCtrl))
	app.Wait()
	assert.Equal(t, 1, ctrl.generate)
	assert.True(t, app.HandleKey(ctx, tcell.KeyEscape, 0, 0))
}

func TestAppSurfaces(t *testing.T) {
	app, _ := newTestApp()

	app.Primary().SetValue("sealed")
	assert.Equal(t, "sealed", app.Primary().Value())
	assert.Empty(t, app.revealText)

	app.Slots()[1].SetValue("two")
	assert.Equal(t, "two", app.Slots()[1].Value())
	assert.Equal(t, "two", app.slots[1].text)

	sink := notify.NewSink(app)
	sink.Notify("hello", notify.Info)
	require.NotNil(t, app.toast)
	assert.Equal(t, "hello", app.toast.n.Message)
}
