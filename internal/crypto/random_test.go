package crypto

import (
	"strings"
	"testing"
	"time"
)

func TestRandRunes(t *testing.T) {
	tests := []struct {
		name    string
		charset string
		n       int
		wantErr error
	}{
		{name: "scramble alphabet", charset: ScrambleAlphabet, n: 32},
		{name: "zero length", charset: ScrambleAlphabet, n: 0},
		{name: "single character", charset: "x", n: 8},
		{name: "multibyte charset", charset: "äöü", n: 16},
		{name: "empty charset", charset: "", n: 4, wantErr: ErrEmptyCharset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RandRunes(tt.charset, tt.n)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("RandRunes() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RandRunes() unexpected error: %v", err)
			}
			if len(got) != tt.n {
				t.Errorf("RandRunes() length = %d, want %d", len(got), tt.n)
			}
			for _, r := range got {
				if !strings.ContainsRune(tt.charset, r) {
					t.Errorf("RandRunes() produced %q outside of %q", r, tt.charset)
				}
			}
		})
	}
}

func TestScrambleAlphabetCoversAllClasses(t *testing.T) {
	for _, set := range []string{uppercaseChars, lowercaseChars, numberChars, symbolChars} {
		if !strings.Contains(ScrambleAlphabet, set) {
			t.Errorf("ScrambleAlphabet missing %q", set)
		}
	}
}

func TestRandIndexRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := RandIndex(7)
		if err != nil {
			t.Fatalf("RandIndex() unexpected error: %v", err)
		}
		if n < 0 || n >= 7 {
			t.Fatalf("RandIndex() = %d, want [0,7)", n)
		}
	}

	if _, err := RandIndex(0); err != ErrEmptyCharset {
		t.Errorf("RandIndex(0) error = %v, want %v", err, ErrEmptyCharset)
	}
}

func TestRandDurationRange(t *testing.T) {
	max := 200 * time.Millisecond
	for i := 0; i < 200; i++ {
		d, err := RandDuration(max)
		if err != nil {
			t.Fatalf("RandDuration() unexpected error: %v", err)
		}
		if d < 0 || d >= max {
			t.Fatalf("RandDuration() = %v, want [0,%v)", d, max)
		}
	}

	if d, err := RandDuration(0); err != nil || d != 0 {
		t.Errorf("RandDuration(0) = %v, %v; want 0, nil", d, err)
	}
}
