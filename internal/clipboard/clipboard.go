// Package clipboard copies text to the system clipboard, falling back to a
// secondary mechanism when the primary one is not available.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is matched by every copy failure.
var ErrUnavailable = errors.New("clipboard unavailable")

// Error reports that no mechanism could copy the text.
type Error struct {
	Attempts []error
}

func (e *Error) Error() string {
	if len(e.Attempts) == 0 {
		return ErrUnavailable.Error()
	}
	msgs := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, strings.Join(msgs, "; "))
}

func (e *Error) Unwrap() []error {
	return append([]error{ErrUnavailable}, e.Attempts...)
}

// Copier places text on a clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
}

// CopierFunc adapts a function to Copier.
type CopierFunc func(ctx context.Context, text string) error

func (f CopierFunc) Copy(ctx context.Context, text string) error {
	return f(ctx, text)
}

type chain []Copier

// Chain tries each copier in order and stops at the first success.
func Chain(copiers ...Copier) Copier {
	var c chain
	for _, cp := range copiers {
		if cp != nil {
			c = append(c, cp)
		}
	}
	return c
}

func (c chain) Copy(ctx context.Context, text string) error {
	var attempts []error
	for _, cp := range c {
		err := cp.Copy(ctx, text)
		if err == nil {
			return nil
		}
		attempts = append(attempts, err)
		if ctx.Err() != nil {
			break
		}
	}
	return &Error{Attempts: attempts}
}

// Command copies by piping text into an external program.
type Command struct {
	Name string
	Args []string
}

func (c Command) Copy(ctx context.Context, text string) error {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", c.Name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// SystemCommands lists the clipboard programs tried on the current OS.
func SystemCommands() []Copier {
	switch runtime.GOOS {
	case "darwin":
		return []Copier{Command{Name: "pbcopy"}}
	case "windows":
		return []Copier{Command{Name: "clip.exe"}}
	default:
		return []Copier{
			Command{Name: "wl-copy"},
			Command{Name: "xclip", Args: []string{"-selection", "clipboard"}},
			Command{Name: "xsel", Args: []string{"--clipboard", "--input"}},
		}
	}
}

// System returns the platform copier chain followed by fallback, if any.
func System(fallback Copier) Copier {
	return Chain(append(SystemCommands(), fallback)...)
}
