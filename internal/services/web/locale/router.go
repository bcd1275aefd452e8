package locale

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// CookieName stores the visitor's last chosen locale.
const CookieName = "site_locale"

// Router validates the leading locale segment of site paths.
type Router struct {
	// DefaultLocale is used when negotiation finds no preference.
	DefaultLocale Locale
	// NotFound renders responses for unsupported locale segments.
	NotFound http.Handler
}

// Default returns the router's effective default locale.
func (rt Router) Default() Locale {
	if rt.DefaultLocale.Valid() {
		return rt.DefaultLocale
	}
	return Default
}

// Negotiate picks the preferred locale for a request without a locale
// segment: the locale cookie first, then Accept-Language, then the default.
func (rt Router) Negotiate(r *http.Request) Locale {
	if r == nil {
		return rt.Default()
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if l, ok := Parse(cookie.Value); ok {
			return l
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return All[index]
			}
		}
	}
	return rt.Default()
}

// SplitPath separates the leading locale segment from the rest of the path.
// rest always begins with "/".
func SplitPath(path string) (segment string, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, found := strings.Cut(trimmed, "/")
	if !found {
		return segment, "/"
	}
	return segment, "/" + rest
}

// Middleware redirects the bare root to the negotiated locale, rejects
// unsupported locale segments with NotFound, and stores the locale on the
// request context for everything else.
func (rt Router) Middleware(next http.Handler) http.Handler {
	notFound := rt.NotFound
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			target := "/" + rt.Negotiate(r).String() + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		segment, _ := SplitPath(r.URL.Path)
		l, ok := Parse(segment)
		if !ok || segment != l.String() {
			notFound.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), rt.Negotiate(r))))
			return
		}
		rememberLocale(w, r, l)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), l)))
	})
}

func rememberLocale(w http.ResponseWriter, r *http.Request, l Locale) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value == l.String() {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    l.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})
}
