package settings

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// DefaultTTL keeps a saved record for one year.
const DefaultTTL = 365 * 24 * time.Hour

// StoreOptions describes how long a record lives and how widely it may be
// shared. SameSite follows cookie semantics; non-cookie stores record it.
type StoreOptions struct {
	TTL      time.Duration
	SameSite http.SameSite
}

// DefaultStoreOptions returns a one-year, same-site strict scope.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		TTL:      DefaultTTL,
		SameSite: http.SameSiteStrictMode,
	}
}

// Store is a single-slot key-value backend for the encoded settings blob.
// Expired records must read as absent.
type Store interface {
	// Load returns the stored blob and whether one was present.
	Load(ctx context.Context) (string, bool, error)

	// Save overwrites the stored blob.
	Save(ctx context.Context, blob string, opts StoreOptions) error

	// Clear removes the stored blob immediately.
	Clear(ctx context.Context) error
}

// MemoryStore keeps the blob in process memory, scoped to the session.
// Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	blob      string
	present   bool
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.present {
		return "", false, nil
	}
	if !m.expiresAt.IsZero() && !m.now().Before(m.expiresAt) {
		return "", false, nil
	}
	return m.blob, true, nil
}

// Save implements Store. A non-positive TTL never expires.
func (m *MemoryStore) Save(ctx context.Context, blob string, opts StoreOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blob = blob
	m.present = true
	m.expiresAt = time.Time{}
	if opts.TTL > 0 {
		m.expiresAt = m.now().Add(opts.TTL)
	}
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blob = ""
	m.present = false
	m.expiresAt = time.Time{}
	return nil
}
