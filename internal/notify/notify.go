// Package notify shows short-lived toast messages, one at a time.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity selects a toast's color.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// Color returns the fixed hex color for the severity. Unknown severities use
// the info color.
func (s Severity) Color() string {
	switch s {
	case Success:
		return "#10b981"
	case Error:
		return "#ef4444"
	case Warning:
		return "#f59e0b"
	default:
		return "#6366f1"
	}
}

const (
	// DefaultVisible is how long a toast stays before it starts leaving.
	DefaultVisible = 3 * time.Second

	// DefaultExit is the length of the leave transition.
	DefaultExit = 300 * time.Millisecond
)

// Notification is one toast.
type Notification struct {
	ID       uuid.UUID
	Message  string
	Severity Severity
	ShownAt  time.Time
}

// Renderer draws toasts. Calls are serialized by the Sink.
type Renderer interface {
	// Show displays n, replacing whatever is on screen.
	Show(n Notification)

	// Leave starts the exit transition of the toast with id.
	Leave(id uuid.UUID)

	// Remove takes the toast with id off screen.
	Remove(id uuid.UUID)
}

// Sink keeps at most one toast visible and dismisses it automatically.
type Sink struct {
	renderer Renderer
	visible  time.Duration
	exit     time.Duration

	mu      sync.Mutex
	current *entry
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Option configures a Sink.
type Option func(*Sink)

// WithDurations overrides the visible and exit durations.
func WithDurations(visible, exit time.Duration) Option {
	return func(s *Sink) {
		s.visible = visible
		s.exit = exit
	}
}

// NewSink creates a Sink drawing through r.
func NewSink(r Renderer, opts ...Option) *Sink {
	s := &Sink{
		renderer: r,
		visible:  DefaultVisible,
		exit:     DefaultExit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify shows message, immediately removing any toast already visible.
func (s *Sink) Notify(message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := s.current; prev != nil {
		prev.timer.Stop()
		s.renderer.Remove(prev.n.ID)
		s.current = nil
	}

	e := &entry{n: Notification{
		ID:       uuid.New(),
		Message:  message,
		Severity: severity,
		ShownAt:  time.Now(),
	}}
	s.current = e
	s.renderer.Show(e.n)
	e.timer = time.AfterFunc(s.visible, func() { s.leave(e) })
}

func (s *Sink) leave(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != e {
		return
	}
	s.renderer.Leave(e.n.ID)
	e.timer = time.AfterFunc(s.exit, func() { s.remove(e) })
}

func (s *Sink) remove(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != e {
		return
	}
	s.renderer.Remove(e.n.ID)
	s.current = nil
}

// Current returns the visible toast, if any.
func (s *Sink) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Notification{}, false
	}
	return s.current.n, true
}
