package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/vaultpass/pwgen/internal/model"
)

// spyStore wraps a MemoryStore and counts Clear calls.
type spyStore struct {
	*MemoryStore
	clears  int
	loadErr error
}

func (s *spyStore) Load(ctx context.Context) (string, bool, error) {
	if s.loadErr != nil {
		return "", false, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *spyStore) Clear(ctx context.Context) error {
	s.clears++
	return s.MemoryStore.Clear(ctx)
}

func newTestManager(t *testing.T) (*Manager, *spyStore) {
	t.Helper()
	store := &spyStore{MemoryStore: NewMemoryStore()}
	return NewManager(newTestCodec(t), store), store
}

func TestManagerLoadAbsent(t *testing.T) {
	m, _ := newTestManager(t)

	got, found := m.Load(context.Background())
	if found {
		t.Error("Load() found = true on empty store")
	}
	if got != model.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
	if m.Enabled() {
		t.Error("Enabled() = true without a stored record")
	}
}

func TestManagerPersistAndLoad(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	m.SetEnabled(true)

	s := model.DefaultSettings()
	s.Length = 30
	s.Separator = model.SeparatorCustom
	s.CustomSeparator = "~"

	outcome, err := m.Persist(ctx, s)
	if err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}
	if outcome != Saved {
		t.Errorf("Persist() outcome = %v, want %v", outcome, Saved)
	}

	reloaded := NewManager(m.codec, store)
	got, found := reloaded.Load(ctx)
	if !found {
		t.Fatal("Load() found = false after Persist()")
	}
	if got != s {
		t.Errorf("Load() = %+v, want %+v", got, s)
	}
	if !reloaded.Enabled() {
		t.Error("Load() of a stored record should enable persistence")
	}
}

func TestManagerPersistOverwrites(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	m.SetEnabled(true)

	first := model.DefaultSettings()
	first.CustomLanguage = "tlh"
	if _, err := m.Persist(ctx, first); err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}

	second := model.DefaultSettings()
	if _, err := m.Persist(ctx, second); err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}

	got, _ := m.Load(ctx)
	if got.CustomLanguage != "" {
		t.Errorf("CustomLanguage = %q, want previous value overwritten", got.CustomLanguage)
	}
}

func TestManagerPersistDisabledClears(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	m.SetEnabled(true)
	if _, err := m.Persist(ctx, model.DefaultSettings()); err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}

	m.SetEnabled(false)
	outcome, err := m.Persist(ctx, model.DefaultSettings())
	if err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}
	if outcome != Cleared {
		t.Errorf("Persist() outcome = %v, want %v", outcome, Cleared)
	}
	if _, found, _ := store.MemoryStore.Load(ctx); found {
		t.Error("record still stored after disabling persistence")
	}
}

func TestManagerLoadCorruptClears(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	if err := store.Save(ctx, "definitely-not-a-record", DefaultStoreOptions()); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, found := m.Load(ctx)
	if found {
		t.Error("Load() found = true for a corrupt record")
	}
	if got != model.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
	if store.clears != 1 {
		t.Errorf("Clear() called %d times, want 1", store.clears)
	}
	if _, present, _ := store.MemoryStore.Load(ctx); present {
		t.Error("corrupt record left in place")
	}
}

func TestManagerLoadCorruptEnvelopeClears(t *testing.T) {
	m, store := newTestManager(t)
	store.loadErr = ErrCorrupt

	if _, found := m.Load(context.Background()); found {
		t.Error("Load() found = true for a corrupt envelope")
	}
	if store.clears != 1 {
		t.Errorf("Clear() called %d times, want 1", store.clears)
	}
}

func TestManagerLoadStoreErrorKeepsRecord(t *testing.T) {
	m, store := newTestManager(t)
	store.loadErr = errors.New("disk unavailable")

	if _, found := m.Load(context.Background()); found {
		t.Error("Load() found = true on store error")
	}
	if store.clears != 0 {
		t.Errorf("Clear() called %d times on a transient error, want 0", store.clears)
	}
}
