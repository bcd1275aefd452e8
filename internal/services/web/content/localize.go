package content

import (
	"strings"

	"github.com/madrasahweb/site/internal/services/web/locale"
)

// Resolution is a localized value plus where it came from.
type Resolution struct {
	Value string
	// Locale is the language Value was taken from. Empty when Value is empty.
	Locale locale.Locale
	// FallbackUsed is true when the requested language was empty and the
	// other language supplied Value.
	FallbackUsed bool
}

// LocalizedText returns text in l, falling back to the other language, or
// "" when both are empty.
func LocalizedText(text MultilingualText, l locale.Locale) string {
	return ResolveText(text, l).Value
}

// ResolveText is LocalizedText with fallback reporting.
func ResolveText(text MultilingualText, l locale.Locale) Resolution {
	want := locale.Resolve(l.String())
	if value := strings.TrimSpace(text.in(want)); value != "" {
		return Resolution{Value: text.in(want), Locale: want}
	}
	other := want.Other()
	if value := strings.TrimSpace(text.in(other)); value != "" {
		return Resolution{Value: text.in(other), Locale: other, FallbackUsed: true}
	}
	return Resolution{}
}

// In is shorthand for LocalizedText.
func (t MultilingualText) In(l locale.Locale) string {
	return LocalizedText(t, l)
}

// IsEmpty reports whether both languages are blank.
func (t MultilingualText) IsEmpty() bool {
	return strings.TrimSpace(t.Bengali) == "" && strings.TrimSpace(t.English) == ""
}

func (t MultilingualText) in(l locale.Locale) string {
	if l == locale.Bengali {
		return t.Bengali
	}
	return t.English
}

// LocalizedArray returns the list in l, falling back to the other language
// when the requested list is empty.
func LocalizedArray(values MultilingualArray, l locale.Locale) []string {
	want := locale.Resolve(l.String())
	if list := values.in(want); len(list) > 0 {
		return list
	}
	if list := values.in(want.Other()); len(list) > 0 {
		return list
	}
	return nil
}

// In is shorthand for LocalizedArray.
func (a MultilingualArray) In(l locale.Locale) []string {
	return LocalizedArray(a, l)
}

func (a MultilingualArray) in(l locale.Locale) []string {
	if l == locale.Bengali {
		return a.Bengali
	}
	return a.English
}

// LocalizedSlug returns the slug in l, falling back to the other language.
func LocalizedSlug(slug MultilingualSlug, l locale.Locale) string {
	want := locale.Resolve(l.String())
	if current := strings.TrimSpace(slug.in(want).Current); current != "" {
		return current
	}
	return strings.TrimSpace(slug.in(want.Other()).Current)
}

// In is shorthand for LocalizedSlug.
func (s MultilingualSlug) In(l locale.Locale) string {
	return LocalizedSlug(s, l)
}

func (s MultilingualSlug) in(l locale.Locale) Slug {
	if l == locale.Bengali {
		return s.Bengali
	}
	return s.English
}
