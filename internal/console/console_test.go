package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vaultpass/pwgen/internal/notify"
	"github.com/vaultpass/pwgen/internal/strength"
)

func TestTerminalStaticReveal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.SetHighlighted(true)
	term.SetText("#####")
	term.SetText("ab###")
	term.SetText("abcde")
	term.SetHighlighted(false)

	if got := buf.String(); got != "abcde\n" {
		t.Errorf("output = %q, want %q", got, "abcde\n")
	}
}

func TestTerminalAnimatedReveal(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	term.SetText("##")
	term.Show(notify.Notification{Message: "interrupt", Severity: notify.Info})
	term.SetText("ab")
	term.SetHighlighted(false)

	out := buf.String()
	if !strings.Contains(out, "\r\033[2K##\n[info] interrupt\n") {
		t.Errorf("notification did not break the reveal line: %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[2Kab\n") {
		t.Errorf("final frame missing: %q", out)
	}
}

func TestTerminalStrength(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.SetStrength(strength.Rating{}, false)
	rating, ok := strength.Rate("Aa1!aaaaaaaa")
	term.SetStrength(rating, ok)

	if got, want := buf.String(), "Strength: Strong (5/5)\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSlot(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	labeled := NewSlot(term, "2")
	labeled.SetValue("word-word")
	if labeled.Value() != "word-word" {
		t.Errorf("Value() = %q", labeled.Value())
	}

	primary := NewSlot(term, "")
	primary.SetValue("hidden-until-reveal")
	if primary.Value() != "hidden-until-reveal" {
		t.Errorf("Value() = %q", primary.Value())
	}

	if got, want := buf.String(), "2: word-word\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
