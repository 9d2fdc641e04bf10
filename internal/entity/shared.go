package entity

import "strings"

// Language is an ISO-style language tag attached to every word.
type Language string

const (
	LanguageUnspecified Language = ""
	LanguageEnglish     Language = "en"
	LanguageChinese     Language = "zh"
	LanguageSpanish     Language = "es"
	LanguageFrench      Language = "fr"
	LanguageGerman      Language = "de"
	LanguageJapanese    Language = "ja"
	LanguageKorean      Language = "ko"
)

var supportedLanguages = map[Language]struct{}{
	LanguageEnglish:  {},
	LanguageChinese:  {},
	LanguageSpanish:  {},
	LanguageFrench:   {},
	LanguageGerman:   {},
	LanguageJapanese: {},
	LanguageKorean:   {},
}

// Code returns the trimmed language code (without defaulting).
func (l Language) Code() string {
	return strings.TrimSpace(string(l))
}

// IsSupported reports whether l is one of the known language tags.
func (l Language) IsSupported() bool {
	_, ok := supportedLanguages[l]
	return ok
}

// NormalizeLanguage falls back to English for unknown or empty tags.
func NormalizeLanguage(lang Language) Language {
	lang = ParseLanguage(string(lang))
	if lang == LanguageUnspecified {
		return LanguageEnglish
	}
	return lang
}

// ParseLanguage converts an arbitrary string into a supported Language value.
// Unknown codes yield LanguageUnspecified.
func ParseLanguage(code string) Language {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	if lang.IsSupported() {
		return lang
	}
	return LanguageUnspecified
}

// NormalizeWordToken trims and lowercases a headword.
func NormalizeWordToken(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
