// Package seo derives page metadata, sitemaps and robots rules.
package seo

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/madrasahweb/site/internal/services/web/locale"
	"golang.org/x/net/html"
)

// DescriptionLimit is the maximum description length in runes.
const DescriptionLimit = 160

// Metadata is everything a page contributes to <head>.
type Metadata struct {
	Title       string
	Description string
	Canonical   string
	// Alternates maps hreflang values, including x-default, to URLs.
	Alternates map[string]string
	Image      string
	// Type is the OpenGraph type, "website" or "article".
	Type     string
	Locale   locale.Locale
	SiteName string
	NoIndex  bool
}

// OGType returns Type, defaulting to "website".
func (m Metadata) OGType() string {
	if m.Type == "" {
		return "website"
	}
	return m.Type
}

// PageTitle formats "{page} | {site}", collapsing to whichever side is set.
func PageTitle(page, site string) string {
	page = strings.TrimSpace(page)
	site = strings.TrimSpace(site)
	switch {
	case page == "":
		return site
	case site == "" || page == site:
		return page
	default:
		return page + " | " + site
	}
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseSpace(b.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenTag(string(name)) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isHiddenTag(string(name)) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func isHiddenTag(name string) bool {
	return name == "script" || name == "style" || name == "template"
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most limit runes, cutting at the last word
// boundary and appending an ellipsis when anything was removed.
func Truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := runes[:limit-1]
	end := len(cut)
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			end = i
			break
		}
	}
	return strings.TrimRightFunc(string(cut[:end]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "…"
}

// Description returns the first candidate with visible text, as plain text
// truncated to DescriptionLimit.
func Description(candidates ...string) string {
	for _, candidate := range candidates {
		if text := PlainText(candidate); text != "" {
			return Truncate(text, DescriptionLimit)
		}
	}
	return ""
}

// URLFor joins the site URL, locale segment and locale-relative path.
func URLFor(siteURL string, l locale.Locale, path string) string {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return siteURL + "/" + l.String() + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return siteURL + "/" + l.String() + path
}

// Alternates returns hreflang links for per-locale paths. x-default points
// at defaultLocale.
func Alternates(siteURL string, paths map[locale.Locale]string, defaultLocale locale.Locale) map[string]string {
	out := make(map[string]string, len(paths)+1)
	for _, l := range locale.All {
		path, ok := paths[l]
		if !ok {
			continue
		}
		out[l.HTMLLang()] = URLFor(siteURL, l, path)
	}
	if path, ok := paths[defaultLocale]; ok {
		out["x-default"] = URLFor(siteURL, defaultLocale, path)
	}
	return out
}

// SamePath maps every locale to one path.
func SamePath(path string) map[locale.Locale]string {
	out := make(map[locale.Locale]string, len(locale.All))
	for _, l := range locale.All {
		out[l] = path
	}
	return out
}
