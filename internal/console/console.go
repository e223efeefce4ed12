// Package console renders the one-shot generate command on a plain
// terminal stream.
package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/secret"
	"github.com/vaultpass/pwgen/internal/strength"
)

// Terminal writes reveal frames, slot values and notifications to w. When
// animate is false only the final text of a reveal is written.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	animate bool
	last    string
	dirty   bool
}

// NewTerminal creates a Terminal.
func NewTerminal(w io.Writer, animate bool) *Terminal {
	return &Terminal{w: w, animate: animate}
}

// SetText redraws the reveal line in place.
func (t *Terminal) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = text
	if t.animate {
		fmt.Fprintf(t.w, "\r\033[2K%s", text)
		t.dirty = true
	}
}

// SetHighlighted ends the reveal line once highlighting is switched off.
func (t *Terminal) SetHighlighted(on bool) {
	if on {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.animate {
		fmt.Fprintln(t.w)
	} else {
		fmt.Fprintln(t.w, t.last)
	}
	t.dirty = false
}

// SetLoading is a no-op; the command blocks until the request ends.
func (t *Terminal) SetLoading(bool) {}

// SetStrength prints the rating under the secret.
func (t *Terminal) SetStrength(r strength.Rating, ok bool) {
	if !ok {
		return
	}
	t.println(fmt.Sprintf("Strength: %s (%d/%d)", r.Label, r.Score, strength.MaxScore))
}

// Show prints a notification line.
func (t *Terminal) Show(n notify.Notification) {
	t.println(fmt.Sprintf("[%s] %s", n.Severity, n.Message))
}

// Leave is a no-op; printed lines stay.
func (t *Terminal) Leave(uuid.UUID) {}

// Remove is a no-op; printed lines stay.
func (t *Terminal) Remove(uuid.UUID) {}

func (t *Terminal) println(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.dirty {
		fmt.Fprintln(t.w)
		t.dirty = false
	}
	fmt.Fprintln(t.w, line)
}

// Slot holds a value sealed in memory and prints it when set. A slot with a
// label prints "label: value".
type Slot struct {
	term  *Terminal
	label string
	box   secret.Box
}

// NewSlot creates a Slot printing through term. The primary slot passes an
// empty label; its text is drawn by the reveal.
func NewSlot(term *Terminal, label string) *Slot {
	return &Slot{term: term, label: label}
}

func (s *Slot) SetValue(v string) {
	s.box.Set(v)
	if s.label != "" {
		s.term.println(fmt.Sprintf("%s: %s", s.label, v))
	}
}

func (s *Slot) Value() string {
	v, err := s.box.Open()
	if err != nil {
		return ""
	}
	return v
}

// MarkCopied prints a copy confirmation.
func (s *Slot) MarkCopied(time.Duration) {
	s.term.println("Copied!")
}
