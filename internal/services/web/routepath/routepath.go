// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
)

const (
	Root         = "/"
	Health       = "/healthz"
	StaticPrefix = "/static/"
	Sitemap      = "/sitemap.xml"
	Robots       = "/robots.txt"
	Favicon      = "/favicon.ico"
	Icon         = "/icon.png"
	AppleIcon    = "/apple-icon.png"
	// StaticFavicon is served when site settings carry no favicon.
	StaticFavicon = StaticPrefix + "favicon.svg"

	APIPrefix       = "/api/"
	APIImagePrefix  = "/api/image/"
	APIImagePattern = APIImagePrefix + "{ref}"
	DraftEnable     = "/api/draft/enable"
	DraftDisable    = "/api/draft/disable"
	Revalidate      = "/api/revalidate"

	LocalePattern = "/{locale}"
)

// Locale-relative page paths. Localized prefixes them with the locale
// segment.
const (
	Home              = "/"
	About             = "/about"
	Programs          = "/programs"
	ProgramPattern    = Programs + "/{slug}"
	Admissions        = "/admissions"
	Campus            = "/campus"
	News              = "/news"
	NewsItemPattern   = News + "/{slug}"
	Contact           = "/contact"
	NewsSearchQuery   = "q"
	NewsCategoryQuery = "category"
	RedirectQuery     = "redirect"
	SecretQuery       = "secret"
)

// StaticPages lists the locale-relative paths with no CMS slug.
var StaticPages = []string{Home, About, Programs, Admissions, Campus, News, Contact}

// Localized prefixes a locale-relative path with the locale segment.
func Localized(l locale.Locale, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == Home {
		return "/" + l.String() + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "/" + l.String() + path
}

// Program returns the locale-relative program detail path.
func Program(slug string) string {
	return Programs + "/" + escapeSegment(slug)
}

// NewsItem returns the locale-relative news detail path.
func NewsItem(slug string) string {
	return News + "/" + escapeSegment(slug)
}

// NewsSearch returns the locale-relative news search path.
func NewsSearch(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return News
	}
	return News + "?" + NewsSearchQuery + "=" + url.QueryEscape(term)
}

// NewsCategory returns the locale-relative news listing for a category.
func NewsCategory(category content.Category) string {
	if _, ok := content.ParseCategory(string(category)); !ok {
		return News
	}
	return News + "?" + NewsCategoryQuery + "=" + url.QueryEscape(string(category))
}

// Image returns the image proxy path for an asset ref with an optional
// width.
func Image(ref string, width int) string {
	path := APIImagePrefix + escapeSegment(ref)
	if width > 0 {
		path += "?w=" + strconv.Itoa(width)
	}
	return path
}

// DraftDisableWithRedirect returns the preview exit path returning to
// redirect.
func DraftDisableWithRedirect(redirect string) string {
	redirect = strings.TrimSpace(redirect)
	if redirect == "" {
		return DraftDisable
	}
	return DraftDisable + "?" + RedirectQuery + "=" + url.QueryEscape(redirect)
}

// SwitchLocale maps a localized request path to the same page in to.
func SwitchLocale(path string, to locale.Locale) string {
	_, rest := locale.SplitPath(path)
	return Localized(to, rest)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
