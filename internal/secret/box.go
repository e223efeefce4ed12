// Package secret keeps generated values sealed in memory while they sit in
// display slots.
package secret

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// Box holds one value in an encrypted enclave. The zero value is empty and
// ready to use.
type Box struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// Set seals v, replacing any previous value. An empty v empties the box.
func (b *Box) Set(v string) {
	var enc *memguard.Enclave
	if v != "" {
		// NewEnclave wipes the slice it is given.
		enc = memguard.NewEnclave([]byte(v))
	}

	b.mu.Lock()
	b.enclave = enc
	b.mu.Unlock()
}

// Open returns a copy of the sealed value, or "" when empty.
func (b *Box) Open() (string, error) {
	b.mu.RLock()
	enc := b.enclave
	b.mu.RUnlock()

	if enc == nil {
		return "", nil
	}
	buf, err := enc.Open()
	if err != nil {
		return "", fmt.Errorf("open enclave: %w", err)
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

// Len reports the sealed value's size in bytes.
func (b *Box) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.enclave == nil {
		return 0
	}
	return b.enclave.Size()
}

// Clear empties the box.
func (b *Box) Clear() {
	b.Set("")
}

// Purge destroys every protected buffer in the process. Call it on exit.
func Purge() {
	memguard.Purge()
}

// CatchInterrupt purges protected memory when the process is interrupted.
func CatchInterrupt() {
	memguard.CatchInterrupt()
}
