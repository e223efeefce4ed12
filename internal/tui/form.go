package tui

import (
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/vaultpass/pwgen/internal/model"
)

// Option bounds.
const (
	MinLength        = 4
	MaxLength        = 128
	MinWordCount     = 1
	MaxWordCount     = 12
	MinMaxWordLength = 3
	MaxMaxWordLength = 15

	maxCustomLanguage = 32
)

type fieldKind int

const (
	kindToggle fieldKind = iota
	kindNumber
	kindChoice
	kindText
)

type field struct {
	label   string
	kind    fieldKind
	min     int
	max     int
	choices []string
	limit   int

	flag    func(*model.Settings) *bool
	number  func(*model.Settings) *int
	text    func(*model.Settings) *string
	visible func(model.Settings) bool
}

func passwordOnly(s model.Settings) bool   { return !s.Passphrase }
func passphraseOnly(s model.Settings) bool { return s.Passphrase }

var fields = []field{
	{label: "Passphrase mode", kind: kindToggle, flag: func(s *model.Settings) *bool { return &s.Passphrase }},

	{label: "Length", kind: kindNumber, min: MinLength, max: MaxLength, visible: passwordOnly,
		number: func(s *model.Settings) *int { return &s.Length }},
	{label: "Uppercase", kind: kindToggle, visible: passwordOnly,
		flag: func(s *model.Settings) *bool { return &s.IncludeUppercase }},
	{label: "Digits", kind: kindToggle, visible: passwordOnly,
		flag: func(s *model.Settings) *bool { return &s.IncludeDigits }},
	{label: "Special characters", kind: kindToggle, visible: passwordOnly,
		flag: func(s *model.Settings) *bool { return &s.IncludeSpecial }},
	{label: "Exclude homoglyphs", kind: kindToggle, visible: passwordOnly,
		flag: func(s *model.Settings) *bool { return &s.ExcludeHomoglyphs }},

	{label: "Word count", kind: kindNumber, min: MinWordCount, max: MaxWordCount, visible: passphraseOnly,
		number: func(s *model.Settings) *int { return &s.WordCount }},
	{label: "Capitalize words", kind: kindToggle, visible: passphraseOnly,
		flag: func(s *model.Settings) *bool { return &s.CapitalizeWords }},
	{label: "Include numbers", kind: kindToggle, visible: passphraseOnly,
		flag: func(s *model.Settings) *bool { return &s.IncludeNumbers }},
	{label: "Include special", kind: kindToggle, visible: passphraseOnly,
		flag: func(s *model.Settings) *bool { return &s.IncludeSpecialChars }},
	{label: "Separator", kind: kindChoice, choices: model.Separators, visible: passphraseOnly,
		text: func(s *model.Settings) *string { return &s.Separator }},
	{label: "Custom separator", kind: kindText, limit: 1,
		visible: func(s model.Settings) bool { return s.Passphrase && s.Separator == model.SeparatorCustom },
		text:    func(s *model.Settings) *string { return &s.CustomSeparator }},
	{label: "Max word length", kind: kindNumber, min: MinMaxWordLength, max: MaxMaxWordLength, visible: passphraseOnly,
		number: func(s *model.Settings) *int { return &s.MaxWordLength }},
	{label: "Language", kind: kindChoice, choices: model.Languages, visible: passphraseOnly,
		text: func(s *model.Settings) *string { return &s.Language }},
	{label: "Custom language", kind: kindText, limit: maxCustomLanguage,
		visible: func(s model.Settings) bool { return s.Passphrase && s.Language == model.LanguageCustom },
		text:    func(s *model.Settings) *string { return &s.CustomLanguage }},
}

type rowKind int

const (
	rowField rowKind = iota
	rowPersist
	rowPrimary
	rowSlot
)

type row struct {
	kind  rowKind
	field *field
	slot  int
}

// Form is the editable option state plus keyboard focus. It is not safe for
// concurrent use; App guards it.
type Form struct {
	s     model.Settings
	focus int
}

// NewForm creates a Form over s with focus on the first row.
func NewForm(s model.Settings) Form {
	return Form{s: s}
}

// Settings returns a copy of the current options.
func (f *Form) Settings() model.Settings {
	return f.s
}

func (f *Form) rows() []row {
	out := make([]row, 0, len(fields)+2+model.MaxSlots)
	for i := range fields {
		fd := &fields[i]
		if fd.visible == nil || fd.visible(f.s) {
			out = append(out, row{kind: rowField, field: fd})
		}
	}
	out = append(out, row{kind: rowPersist}, row{kind: rowPrimary})
	for i := 0; i < model.MaxSlots; i++ {
		out = append(out, row{kind: rowSlot, slot: i})
	}
	return out
}

func (f *Form) focused() row {
	rows := f.rows()
	f.focus = min(max(f.focus, 0), len(rows)-1)
	return rows[f.focus]
}

// Move shifts focus by delta rows, wrapping around.
func (f *Form) Move(delta int) {
	n := len(f.rows())
	f.focus = ((f.focus+delta)%n + n) % n
}

// Adjust steps the focused field by delta and reports whether an option
// changed. Toggles flip regardless of sign; choices cycle.
func (f *Form) Adjust(delta int) bool {
	r := f.focused()
	if r.kind != rowField {
		return false
	}
	fd := r.field
	switch fd.kind {
	case kindToggle:
		p := fd.flag(&f.s)
		*p = !*p
		return true
	case kindNumber:
		p := fd.number(&f.s)
		next := min(max(*p+delta, fd.min), fd.max)
		if next == *p {
			return false
		}
		*p = next
		return true
	case kindChoice:
		p := fd.text(&f.s)
		i := slices.Index(fd.choices, *p)
		n := len(fd.choices)
		*p = fd.choices[((i+delta)%n+n)%n]
		return true
	}
	return false
}

// Toggle flips a toggle or advances a choice.
func (f *Form) Toggle() bool {
	r := f.focused()
	if r.kind != rowField || (r.field.kind != kindToggle && r.field.kind != kindChoice) {
		return false
	}
	return f.Adjust(1)
}

// EditingText reports whether the focused row is a text field.
func (f *Form) EditingText() bool {
	r := f.focused()
	return r.kind == rowField && r.field.kind == kindText
}

// Insert appends ch to the focused text field. A single-character field is
// replaced instead.
func (f *Form) Insert(ch rune) bool {
	if !f.EditingText() {
		return false
	}
	fd := f.focused().field
	p := fd.text(&f.s)
	if fd.limit == 1 {
		*p = string(ch)
		return true
	}
	if utf8.RuneCountInString(*p) >= fd.limit {
		return false
	}
	*p += string(ch)
	return true
}

// Backspace removes the last character of the focused text field.
func (f *Form) Backspace() bool {
	if !f.EditingText() {
		return false
	}
	p := f.focused().field.text(&f.s)
	if *p == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(*p)
	*p = (*p)[:len(*p)-size]
	return true
}

func (fd *field) value(s model.Settings) string {
	switch fd.kind {
	case kindToggle:
		return checkbox(*fd.flag(&s))
	case kindNumber:
		return "< " + strconv.Itoa(*fd.number(&s)) + " >"
	case kindChoice:
		return "< " + *fd.text(&s) + " >"
	default:
		return "[" + *fd.text(&s) + "]"
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
