package locale

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// Default is the locale unprefixed paths are rewritten to.
const Default = "vi"

// Supported lists the locales the app ships translations for, in
// matcher preference order. The first entry is the default.
var Supported = []string{"vi", "en"}

// ErrUnsupported is returned when a locale outside Supported is set.
var ErrUnsupported = errors.New("locale: unsupported locale")

var matcher = language.NewMatcher([]language.Tag{
	language.Vietnamese,
	language.English,
})

// IsSupported reports whether the locale is one the app ships.
func IsSupported(loc string) bool {
	for _, s := range Supported {
		if s == loc {
			return true
		}
	}
	return false
}

// PathLocale extracts the locale prefix from a request path.
// "/en/courses" yields ("en", true); "/courses" yields ("", false).
func PathLocale(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, _, _ := strings.Cut(trimmed, "/")
	if IsSupported(seg) {
		return seg, true
	}
	return "", false
}

// Rewrite computes the redirect for an unprefixed path: the default
// locale is prepended and the query string preserved. Returns ok=false
// when the path already carries a supported locale prefix.
func Rewrite(path, rawQuery string) (string, bool) {
	if _, ok := PathLocale(path); ok {
		return "", false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := "/" + Default + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target, true
}

// Match picks the best supported locale for an Accept-Language header.
// Unparsable or empty headers fall back to the default.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, _ := matcher.Match(tags...)
	return Supported[idx]
}
