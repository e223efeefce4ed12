package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	numberChars    = "0123456789"
	symbolChars    = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?"

	// ScrambleAlphabet is the character pool used for placeholder text.
	ScrambleAlphabet = uppercaseChars + lowercaseChars + numberChars + symbolChars
)

var ErrEmptyCharset = errors.New("charset must not be empty")

// RandIndex returns a uniform random int in [0, n) using crypto/rand.
func RandIndex(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyCharset
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// RandRunes returns n runes drawn uniformly from charset.
func RandRunes(charset string, n int) ([]rune, error) {
	pool := []rune(charset)
	if len(pool) == 0 {
		return nil, ErrEmptyCharset
	}

	out := make([]rune, n)
	for i := range out {
		idx, err := RandIndex(len(pool))
		if err != nil {
			return nil, err
		}
		out[i] = pool[idx]
	}
	return out, nil
}

// RandDuration returns a uniform random duration in [0, limit).
func RandDuration(limit time.Duration) (time.Duration, error) {
	if limit <= 0 {
		return 0, nil
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return 0, err
	}
	return time.Duration(v.Int64()), nil
}
