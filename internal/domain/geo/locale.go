// internal/domain/geo/locale.go

// Package geo resolves a market (country) into the locale parameters that
// upstream search APIs expect.
package geo

import (
	"strings"

	"golang.org/x/text/language"

	"trendlab/internal/domain/trend"
)

// Locale describes how a search should be localized
type Locale struct {
	Country  trend.Country
	Language language.Tag
}

var defaultLanguages = map[trend.Country]language.Tag{
	trend.CountryKR: language.Korean,
	trend.CountryJP: language.Japanese,
	trend.CountryUS: language.English,
}

// DefaultLanguage returns the language a market searches in when the caller
// does not override it. Unknown markets fall back to English.
func DefaultLanguage(c trend.Country) language.Tag {
	if tag, ok := defaultLanguages[c]; ok {
		return tag
	}
	return language.English
}

// Resolve combines a country with an optional explicit language override.
// An unparseable override is ignored in favour of the market default.
func Resolve(c trend.Country, override string) Locale {
	loc := Locale{Country: c, Language: DefaultLanguage(c)}
	if override = strings.TrimSpace(override); override != "" {
		if tag, err := language.Parse(override); err == nil {
			loc.Language = tag
		}
	}
	return loc
}

// LanguageCode returns the base ISO 639-1 code, e.g. "ja" for ja-JP
func (l Locale) LanguageCode() string {
	base, _ := l.Language.Base()
	return base.String()
}

// RegionCode returns the ISO 3166-1 alpha-2 code used by the YouTube API
func (l Locale) RegionCode() string {
	return strings.ToUpper(string(l.Country))
}

// GoogleCountry returns the lower-case country code used by Google search engines
func (l Locale) GoogleCountry() string {
	return strings.ToLower(string(l.Country))
}
