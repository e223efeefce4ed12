// Package reveal animates a freshly generated secret: the display starts
// with random characters and every position flips to its final character at
// an independent random moment.
package reveal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpass/pwgen/internal/crypto"
)

const (
	// DefaultMaxDelay bounds the per-character delay.
	DefaultMaxDelay = 200 * time.Millisecond

	// DefaultSettle is how long the highlight lingers after the last flip.
	DefaultSettle = 500 * time.Millisecond
)

// Display receives the animated text. Calls are serialized by the Animator
// and must not call back into it.
type Display interface {
	// SetText replaces the whole displayed text.
	SetText(text string)

	// SetHighlighted toggles the in-progress styling.
	SetHighlighted(on bool)
}

// Animator drives reveals on one Display. Starting a reveal cancels the one
// in flight, so at most one session writes to the display.
type Animator struct {
	display  Display
	alphabet string
	maxDelay time.Duration
	settle   time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	current *Session
}

// Option configures an Animator.
type Option func(*Animator)

// WithTiming overrides the per-character delay bound and the settle delay.
func WithTiming(maxDelay, settle time.Duration) Option {
	return func(a *Animator) {
		a.maxDelay = maxDelay
		a.settle = settle
	}
}

// WithAlphabet overrides the placeholder character pool.
func WithAlphabet(alphabet string) Option {
	return func(a *Animator) { a.alphabet = alphabet }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// NewAnimator creates an Animator writing to d.
func NewAnimator(d Display, opts ...Option) *Animator {
	a := &Animator{
		display:  d,
		alphabet: crypto.ScrambleAlphabet,
		maxDelay: DefaultMaxDelay,
		settle:   DefaultSettle,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session is one reveal. It owns its buffer and timers.
type Session struct {
	ID uuid.UUID

	target    []rune
	buf       []rune
	completed int
	timers    []*time.Timer
	ended     bool
	done      chan struct{}
}

// Done is closed once the session settles or is canceled.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session is done or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reveal starts animating target and returns its session. Any earlier
// session is canceled first and never touches the display again.
func (a *Animator) Reveal(target string) *Session {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.cancelLocked(a.current)
	}

	s := &Session{
		ID:     uuid.New(),
		target: []rune(target),
		done:   make(chan struct{}),
	}
	s.buf = a.scramble(len(s.target), s.target)
	a.current = s

	a.display.SetText(string(s.buf))
	a.display.SetHighlighted(true)

	if len(s.target) == 0 {
		s.timers = append(s.timers, time.AfterFunc(a.settle, func() { a.finish(s) }))
		return s
	}

	for i := range s.target {
		idx := i
		s.timers = append(s.timers, time.AfterFunc(a.delay(), func() { a.flip(s, idx) }))
	}
	return s
}

// Cancel stops the session in flight, if any, leaving the display as is.
func (a *Animator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current != nil {
		a.cancelLocked(a.current)
		a.current = nil
	}
}

func (a *Animator) flip(s *Session, i int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s.ended {
		return
	}
	s.buf[i] = s.target[i]
	a.display.SetText(string(s.buf))
	s.completed++

	if s.completed == len(s.target) {
		s.timers = append(s.timers, time.AfterFunc(a.settle, func() { a.finish(s) }))
	}
}

func (a *Animator) finish(s *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if s.ended {
		return
	}
	a.display.SetHighlighted(false)
	s.ended = true
	close(s.done)
	if a.current == s {
		a.current = nil
	}
}

func (a *Animator) cancelLocked(s *Session) {
	if s.ended {
		return
	}
	s.ended = true
	for _, t := range s.timers {
		t.Stop()
	}
	close(s.done)
	a.logger.Debug("reveal superseded", "session", s.ID)
}

func (a *Animator) scramble(n int, fallback []rune) []rune {
	buf, err := crypto.RandRunes(a.alphabet, n)
	if err != nil {
		a.logger.Warn("scrambling placeholder failed", "error", err)
		return append([]rune(nil), fallback...)
	}
	return buf
}

func (a *Animator) delay() time.Duration {
	d, err := crypto.RandDuration(a.maxDelay)
	if err != nil {
		return 0
	}
	return d
}
