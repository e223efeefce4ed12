package model

// Separator modes understood by the generation service. SeparatorCustom is a
// UI-only mode; on the wire it is sent as SeparatorSingleCharacter.
const (
	SeparatorDash             = "dash"
	SeparatorSpace            = "space"
	SeparatorUnderscore       = "underscore"
	SeparatorPeriod           = "period"
	SeparatorComma            = "comma"
	SeparatorNumber           = "number"
	SeparatorSpecialCharacter = "special_character"
	SeparatorCustom           = "custom"

	SeparatorSingleCharacter = "single_character"
)

// Separators lists the selectable separator modes in display order.
var Separators = []string{
	SeparatorDash,
	SeparatorSpace,
	SeparatorUnderscore,
	SeparatorPeriod,
	SeparatorComma,
	SeparatorNumber,
	SeparatorSpecialCharacter,
	SeparatorCustom,
}

// LanguageCustom selects a user supplied word list language.
const LanguageCustom = "custom"

// Languages lists the selectable passphrase languages in display order.
var Languages = []string{"en", "de", "es", "fr", "it", "nl", "pt", "sv", LanguageCustom}

// Settings is the full set of user-facing generation options. It doubles as
// the form state read by the controller and the record persisted between
// sessions.
type Settings struct {
	IncludeUppercase    bool   `json:"includeUppercase"`
	IncludeDigits       bool   `json:"includeDigits"`
	IncludeSpecial      bool   `json:"includeSpecial"`
	ExcludeHomoglyphs   bool   `json:"excludeHomoglyphs"`
	Length              int    `json:"length"`
	Passphrase          bool   `json:"passphraseToggle"`
	CapitalizeWords     bool   `json:"capitalizeWords"`
	IncludeNumbers      bool   `json:"includeNumbers"`
	IncludeSpecialChars bool   `json:"includeSpecialChars"`
	WordCount           int    `json:"wordCount"`
	Separator           string `json:"separator"`
	CustomSeparator     string `json:"customSeparator"`
	MaxWordLength       int    `json:"maxWordLength"`
	Language            string `json:"language"`
	CustomLanguage      string `json:"customLanguage"`
}

// DefaultSettings returns the options used when nothing has been persisted.
func DefaultSettings() Settings {
	return Settings{
		IncludeUppercase:    true,
		IncludeDigits:       true,
		IncludeSpecial:      true,
		ExcludeHomoglyphs:   false,
		Length:              12,
		Passphrase:          false,
		CapitalizeWords:     false,
		IncludeNumbers:      false,
		IncludeSpecialChars: false,
		WordCount:           4,
		Separator:           SeparatorDash,
		MaxWordLength:       7,
		Language:            "en",
		CustomSeparator:     "",
		CustomLanguage:      "",
	}
}

// ActionLabel is the label of the generate action for the current mode.
func (s Settings) ActionLabel() string {
	if s.Passphrase {
		return "Generate Passphrase"
	}
	return "Generate Password"
}
