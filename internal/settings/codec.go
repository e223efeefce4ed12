// Package settings persists generation preferences between sessions.
//
// A Settings record is packed with msgpack, signed with a truncated
// HMAC-SHA256 and rendered as "<base64url payload>.<base64url signature>",
// which is safe for cookies, files and database columns alike. Fields absent
// from a stored record fall back to their defaults one by one, so records
// written by older clients stay readable.
package settings

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vaultpass/pwgen/internal/model"
)

var (
	ErrCorrupt          = errors.New("settings: corrupt record")
	ErrSignatureInvalid = errors.New("settings: signature verification failed")
	ErrEmptyKey         = errors.New("settings: codec key must not be empty")
)

const signatureLength = 16

// record mirrors model.Settings with optional fields so that a partially
// populated blob can be told apart from explicit zero values.
type record struct {
	IncludeUppercase    *bool   `msgpack:"includeUppercase"`
	IncludeDigits       *bool   `msgpack:"includeDigits"`
	IncludeSpecial      *bool   `msgpack:"includeSpecial"`
	ExcludeHomoglyphs   *bool   `msgpack:"excludeHomoglyphs"`
	Length              *int    `msgpack:"length"`
	Passphrase          *bool   `msgpack:"passphraseToggle"`
	CapitalizeWords     *bool   `msgpack:"capitalizeWords"`
	IncludeNumbers      *bool   `msgpack:"includeNumbers"`
	IncludeSpecialChars *bool   `msgpack:"includeSpecialChars"`
	WordCount           *int    `msgpack:"wordCount"`
	Separator           *string `msgpack:"separator"`
	CustomSeparator     *string `msgpack:"customSeparator"`
	MaxWordLength       *int    `msgpack:"maxWordLength"`
	Language            *string `msgpack:"language"`
	CustomLanguage      *string `msgpack:"customLanguage"`
}

func newRecord(s model.Settings) record {
	return record{
		IncludeUppercase:    &s.IncludeUppercase,
		IncludeDigits:       &s.IncludeDigits,
		IncludeSpecial:      &s.IncludeSpecial,
		ExcludeHomoglyphs:   &s.ExcludeHomoglyphs,
		Length:              &s.Length,
		Passphrase:          &s.Passphrase,
		CapitalizeWords:     &s.CapitalizeWords,
		IncludeNumbers:      &s.IncludeNumbers,
		IncludeSpecialChars: &s.IncludeSpecialChars,
		WordCount:           &s.WordCount,
		Separator:           &s.Separator,
		CustomSeparator:     &s.CustomSeparator,
		MaxWordLength:       &s.MaxWordLength,
		Language:            &s.Language,
		CustomLanguage:      &s.CustomLanguage,
	}
}

func (r record) settings() model.Settings {
	s := model.DefaultSettings()
	setBool(&s.IncludeUppercase, r.IncludeUppercase)
	setBool(&s.IncludeDigits, r.IncludeDigits)
	setBool(&s.IncludeSpecial, r.IncludeSpecial)
	setBool(&s.ExcludeHomoglyphs, r.ExcludeHomoglyphs)
	setInt(&s.Length, r.Length)
	setBool(&s.Passphrase, r.Passphrase)
	setBool(&s.CapitalizeWords, r.CapitalizeWords)
	setBool(&s.IncludeNumbers, r.IncludeNumbers)
	setBool(&s.IncludeSpecialChars, r.IncludeSpecialChars)
	setInt(&s.WordCount, r.WordCount)
	setString(&s.Separator, r.Separator)
	setString(&s.CustomSeparator, r.CustomSeparator)
	setInt(&s.MaxWordLength, r.MaxWordLength)
	setString(&s.Language, r.Language)
	setString(&s.CustomLanguage, r.CustomLanguage)
	return s
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Codec converts settings to and from their persisted string form.
type Codec struct {
	key []byte
}

// NewCodec creates a codec signing records with key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return &Codec{key: key}, nil
}

// Encode serializes the full settings record.
func (c *Codec) Encode(s model.Settings) (string, error) {
	packed, err := msgpack.Marshal(newRecord(s))
	if err != nil {
		return "", fmt.Errorf("packing settings: %w", err)
	}
	return c.sign(packed), nil
}

// Decode parses a persisted record. On any failure it returns the default
// settings together with an error wrapping ErrCorrupt.
func (c *Codec) Decode(blob string) (model.Settings, error) {
	packed, err := c.verify(blob)
	if err != nil {
		return model.DefaultSettings(), fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var r record
	if err := msgpack.Unmarshal(packed, &r); err != nil {
		return model.DefaultSettings(), fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return r.settings(), nil
}

// sign renders data as base64url(data) "." base64url(mac).
func (c *Codec) sign(data []byte) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(data)
	sig := mac.Sum(nil)[:signatureLength]
	return base64.RawURLEncoding.EncodeToString(data) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (c *Codec) verify(blob string) ([]byte, error) {
	payload, signature, ok := strings.Cut(blob, ".")
	if !ok {
		return nil, errors.New("missing signature")
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(signature)
	if err != nil {
		return nil, fmt.Errorf("decoding signature: %w", err)
	}

	mac := hmac.New(sha256.New, c.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)[:signatureLength]) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}
