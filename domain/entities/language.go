package entities

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageTag is a base language code such as "en" or "hi"
type LanguageTag string

const (
	LanguageEnglish LanguageTag = "en"
	LanguageHindi   LanguageTag = "hi"
	LanguageTamil   LanguageTag = "ta"
	LanguageTelugu  LanguageTag = "te"
	LanguageBengali LanguageTag = "bn"
	LanguageKannada LanguageTag = "kn"
	LanguageMarathi LanguageTag = "mr"
)

// DefaultLanguage is used when no usable tag is supplied
const DefaultLanguage = LanguageEnglish

// LanguageOption is an entry of the language selector
type LanguageOption struct {
	Tag  LanguageTag `json:"code"`
	Name string      `json:"name"`
}

var selectableLanguages = []LanguageOption{
	{Tag: LanguageEnglish, Name: "English"},
	{Tag: LanguageHindi, Name: "हिंदी"},
	{Tag: LanguageTamil, Name: "தமிழ்"},
	{Tag: LanguageTelugu, Name: "తెలుగు"},
	{Tag: LanguageBengali, Name: "বাংলা"},
	{Tag: LanguageKannada, Name: "ಕನ್ನಡ"},
	{Tag: LanguageMarathi, Name: "मराठी"},
}

var speechLocales = map[LanguageTag]string{
	LanguageEnglish: "en-US",
	LanguageHindi:   "hi-IN",
	LanguageTamil:   "ta-IN",
	LanguageTelugu:  "te-IN",
	LanguageBengali: "bn-IN",
	LanguageKannada: "kn-IN",
	LanguageMarathi: "mr-IN",
}

// SelectableLanguages returns the languages offered to the user
func SelectableLanguages() []LanguageOption {
	out := make([]LanguageOption, len(selectableLanguages))
	copy(out, selectableLanguages)
	return out
}

// ParseLanguage normalizes raw input ("hi-IN", "EN", " ta ") to a base language tag.
// Unparseable input yields DefaultLanguage; well-formed but unknown tags are kept as-is
// so that content lookup can fall back explicitly.
func ParseLanguage(raw string) LanguageTag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return LanguageTag(base.String())
}

// IsSelectable reports whether the tag is offered by the language selector
func (l LanguageTag) IsSelectable() bool {
	for _, opt := range selectableLanguages {
		if opt.Tag == l {
			return true
		}
	}
	return false
}

// SpeechLocale returns the locale handed to speech capabilities
func (l LanguageTag) SpeechLocale() string {
	if locale, ok := speechLocales[l]; ok {
		return locale
	}
	return speechLocales[DefaultLanguage]
}

// EnglishName returns the language name in English ("Hindi" for hi).
// An unparseable tag yields an empty string.
func (l LanguageTag) EnglishName() string {
	tag, err := language.Parse(string(l))
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}

func (l LanguageTag) String() string {
	return string(l)
}
