package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vaultpass/pwgen/internal/model"
)

// Outcome reports what Persist did with the record.
type Outcome int

const (
	Saved Outcome = iota + 1
	Cleared
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Manager ties a Codec to a Store and tracks whether the user opted in to
// persistence.
type Manager struct {
	codec  *Codec
	store  Store
	opts   StoreOptions
	logger *slog.Logger

	mu      sync.Mutex
	enabled bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithStoreOptions overrides the TTL and same-site scope.
func WithStoreOptions(opts StoreOptions) Option {
	return func(m *Manager) { m.opts = opts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager. Persistence starts disabled until Load finds
// a record or SetEnabled is called.
func NewManager(codec *Codec, store Store, opts ...Option) *Manager {
	m := &Manager{
		codec:  codec,
		store:  store,
		opts:   DefaultStoreOptions(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enabled reports whether changes are being persisted.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetEnabled switches persistence on or off. It does not touch the store;
// the next Persist call saves or clears accordingly.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

// Load reads the stored record. It returns the defaults and false when no
// usable record exists. A corrupt record is cleared and never surfaced as an
// error; finding a valid record enables persistence.
func (m *Manager) Load(ctx context.Context) (model.Settings, bool) {
	blob, found, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			m.discard(ctx, err)
		} else {
			m.logger.Warn("loading settings failed", "error", err)
		}
		return model.DefaultSettings(), false
	}
	if !found {
		return model.DefaultSettings(), false
	}

	s, err := m.codec.Decode(blob)
	if err != nil {
		m.discard(ctx, err)
		return model.DefaultSettings(), false
	}

	m.SetEnabled(true)
	m.logger.Debug("settings loaded")
	return s, true
}

func (m *Manager) discard(ctx context.Context, cause error) {
	m.logger.Warn("discarding corrupt settings", "error", cause)
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("clearing corrupt settings failed", "error", err)
	}
}

// Persist overwrites the stored record with s when persistence is enabled,
// and removes it otherwise.
func (m *Manager) Persist(ctx context.Context, s model.Settings) (Outcome, error) {
	if !m.Enabled() {
		if err := m.Clear(ctx); err != nil {
			return Cleared, err
		}
		return Cleared, nil
	}

	blob, err := m.codec.Encode(s)
	if err != nil {
		return Saved, err
	}
	if err := m.store.Save(ctx, blob, m.opts); err != nil {
		return Saved, fmt.Errorf("saving settings: %w", err)
	}
	return Saved, nil
}

// Clear removes the stored record.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}
	return nil
}
