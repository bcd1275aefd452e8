// Package locale resolves the site's two supported languages from URL
// segments, cookies and Accept-Language headers.
package locale

import (
	"context"
	"strings"

	"github.com/madrasahweb/site/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is one of the two site languages. The string value doubles as the
// URL segment and as the field name in bilingual CMS documents.
type Locale string

const (
	Bengali Locale = "bengali"
	English Locale = "english"
)

// Default is the locale used when a request carries no usable preference.
// Routers may override it per instance.
const Default = English

// All lists the supported locales in display order.
var All = []Locale{Bengali, English}

// Parse reports whether value names a supported locale.
func Parse(value string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(value))) {
	case Bengali:
		return Bengali, true
	case English:
		return English, true
	default:
		return "", false
	}
}

// Resolve maps value to a supported locale, returning Default for absent or
// unknown values. It never fails.
func Resolve(value string) Locale {
	return ResolveWithDefault(value, Default)
}

// ResolveWithDefault maps value to a supported locale, returning fallback
// for absent or unknown values. An unsupported fallback becomes Default.
func ResolveWithDefault(value string, fallback Locale) Locale {
	if l, ok := Parse(value); ok {
		return l
	}
	if !fallback.Valid() {
		return Default
	}
	return fallback
}

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	return l == Bengali || l == English
}

// String returns the URL segment for l.
func (l Locale) String() string {
	return string(l)
}

// Other returns the alternate site language.
func (l Locale) Other() Locale {
	if l == Bengali {
		return English
	}
	return Bengali
}

// Tag returns the BCP 47 tag for l.
func (l Locale) Tag() language.Tag {
	if l == Bengali {
		return language.Bengali
	}
	return language.English
}

// HTMLLang returns the value for the html lang attribute.
func (l Locale) HTMLLang() string {
	return l.Tag().String()
}

// OpenGraph returns the og:locale value for l.
func (l Locale) OpenGraph() string {
	if l == Bengali {
		return "bn_BD"
	}
	return "en_US"
}

// FromTag maps a language tag to the closest supported locale.
func FromTag(tag language.Tag) (Locale, bool) {
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return All[index], true
}

var matcher = language.NewMatcher([]language.Tag{language.Bengali, language.English})

// Printer returns the UI message printer for l.
func Printer(l Locale) *message.Printer {
	return catalog.Default().Printer(l.Tag())
}

type contextKey struct{}

// WithLocale stores l on ctx.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the request locale stored on ctx, or Default.
func FromContext(ctx context.Context) Locale {
	if ctx == nil {
		return Default
	}
	if l, ok := ctx.Value(contextKey{}).(Locale); ok && l.Valid() {
		return l
	}
	return Default
}
