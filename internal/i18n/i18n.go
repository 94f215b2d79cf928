// Package i18n provides localization of user-facing strings: API error
// messages, notification titles and bodies, and email subjects. Translations
// are compiled into the binary. Resolution order: requested language →
// default language ("fr") → the key itself.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLang is the fallback language of the application.
const DefaultLang = "fr"

var supported = []language.Tag{
	language.French, // first = default
	language.English,
}

var matcher = language.NewMatcher(supported)

// MatchLocale resolves an Accept-Language header value to a supported
// language code. Empty or unparseable input yields DefaultLang.
func MatchLocale(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supported[index].Base()
	return base.String()
}

// Supported reports whether lang is a supported language code.
func Supported(lang string) bool {
	for _, tag := range supported {
		base, _ := tag.Base()
		if base.String() == lang {
			return true
		}
	}
	return false
}

// T returns the localized string for key in lang. Extra args are passed to
// fmt.Sprintf when the translation contains format verbs. Unknown keys come
// back verbatim so nothing is silently swallowed.
func T(lang, key string, args ...any) string {
	byLang, ok := messages[key]
	if !ok {
		return key
	}
	tmpl, ok := byLang[lang]
	if !ok {
		tmpl, ok = byLang[DefaultLang]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
