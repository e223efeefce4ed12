package model

import (
	"net/url"
	"strconv"
)

// Output kinds accepted by the generation service.
const (
	KindPassword   = "password"
	KindPassphrase = "passphrase"
)

// MaxSlots is the number of fixed display slots in multi-value mode.
const MaxSlots = 5

// GenerateRequest is a snapshot of the form options sent to the generation
// service. UserDefinedSeparator and LanguageCustom are only meaningful when
// SeparatorType is SeparatorSingleCharacter and Language is LanguageCustom.
type GenerateRequest struct {
	Kind                 string
	Length               int
	IncludeUppercase     bool
	IncludeDigits        bool
	IncludeSpecial       bool
	ExcludeHomoglyphs    bool
	IncludeNumbers       bool
	IncludeSpecialChars  bool
	Capitalize           bool
	WordCount            int
	SeparatorType        string
	UserDefinedSeparator string
	MaxWordLength        int
	Language             string
	LanguageCustom       string
}

// NewGenerateRequest builds a request from the current form state.
func NewGenerateRequest(s Settings) GenerateRequest {
	req := GenerateRequest{
		Kind:                KindPassword,
		Length:              s.Length,
		IncludeUppercase:    s.IncludeUppercase,
		IncludeDigits:       s.IncludeDigits,
		IncludeSpecial:      s.IncludeSpecial,
		ExcludeHomoglyphs:   s.ExcludeHomoglyphs,
		IncludeNumbers:      s.IncludeNumbers,
		IncludeSpecialChars: s.IncludeSpecialChars,
		Capitalize:          s.CapitalizeWords,
		WordCount:           s.WordCount,
		SeparatorType:       s.Separator,
		MaxWordLength:       s.MaxWordLength,
		Language:            s.Language,
	}
	if s.Passphrase {
		req.Kind = KindPassphrase
	}
	if s.Separator == SeparatorCustom {
		req.SeparatorType = SeparatorSingleCharacter
		req.UserDefinedSeparator = s.CustomSeparator
	}
	if s.Language == LanguageCustom {
		req.LanguageCustom = s.CustomLanguage
	}
	return req
}

// Form encodes the request as the service's form fields.
func (r GenerateRequest) Form() url.Values {
	v := url.Values{}
	v.Set("length", strconv.Itoa(r.Length))
	v.Set("include_uppercase", strconv.FormatBool(r.IncludeUppercase))
	v.Set("include_digits", strconv.FormatBool(r.IncludeDigits))
	v.Set("include_special", strconv.FormatBool(r.IncludeSpecial))
	v.Set("exclude_homoglyphs", strconv.FormatBool(r.ExcludeHomoglyphs))
	v.Set("include_numbers", strconv.FormatBool(r.IncludeNumbers))
	v.Set("include_special_chars", strconv.FormatBool(r.IncludeSpecialChars))
	v.Set("capitalize", strconv.FormatBool(r.Capitalize))
	v.Set("word_count", strconv.Itoa(r.WordCount))
	v.Set("separator_type", r.SeparatorType)
	if r.SeparatorType == SeparatorSingleCharacter {
		v.Set("user_defined_separator", r.UserDefinedSeparator)
	}
	v.Set("max_word_length", strconv.Itoa(r.MaxWordLength))
	v.Set("type", r.Kind)
	v.Set("language", r.Language)
	if r.Language == LanguageCustom {
		v.Set("languageCustom", r.LanguageCustom)
	}
	return v
}

// GenerateResponse is the service reply. Exactly one of Password or
// Passwords is populated; a non-nil Passwords selects multi-slot mode.
type GenerateResponse struct {
	Password  *string  `json:"password,omitempty"`
	Passwords []string `json:"passwords,omitempty"`
}

// Multi reports whether the response carries several values.
func (r GenerateResponse) Multi() bool {
	return r.Passwords != nil
}

// Single returns the single-value password, or "" when absent.
func (r GenerateResponse) Single() string {
	if r.Password == nil {
		return ""
	}
	return *r.Password
}
