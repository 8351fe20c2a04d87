// internal/pipeline/render/locale.go
package render

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale selects the message catalog.
type Locale int

const (
	Korean Locale = iota
	English
)

// supported is ordered like the Locale constants; the first entry is the
// fallback when nothing matches.
var supported = []language.Tag{language.Korean, language.English}

var matcher = language.NewMatcher(supported)

// ParseLocale matches a BCP 47 tag such as "en-US" against the supported
// catalogs. Unknown or malformed tags fall back to Korean.
func ParseLocale(s string) Locale {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return Korean
	}
	return match(tag)
}

// MatchAcceptLanguage picks a locale from an Accept-Language header.
func MatchAcceptLanguage(header string) Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Korean
	}
	return match(tags...)
}

func match(tags ...language.Tag) Locale {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Korean
	}
	return Locale(idx)
}

// Tag returns the language tag of the locale.
func (l Locale) Tag() language.Tag {
	if int(l) < 0 || int(l) >= len(supported) {
		return supported[0]
	}
	return supported[l]
}

func (l Locale) String() string {
	return l.Tag().String()
}
