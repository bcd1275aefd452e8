package templates

import (
	"regexp"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/routepath"
	"github.com/madrasahweb/site/internal/services/web/seo"
)

// Chrome carries everything the shared layout needs around a page body.
type Chrome struct {
	Locale locale.Locale
	Loc    Localizer
	Meta   seo.Metadata
	// Settings may be nil when the CMS is unavailable.
	Settings    *content.SiteSettings
	CurrentPath string
	Preview     bool
	AnalyticsID string
	// SiteName is used when settings carry no title.
	SiteName string
	Now      time.Time
}

// NavItem is one primary navigation link.
type NavItem struct {
	Key    string
	Path   string
	Active bool
}

var navPaths = []struct {
	key  string
	path string
}{
	{key: "site.nav.home", path: routepath.Home},
	{key: "site.nav.about", path: routepath.About},
	{key: "site.nav.programs", path: routepath.Programs},
	{key: "site.nav.admissions", path: routepath.Admissions},
	{key: "site.nav.campus", path: routepath.Campus},
	{key: "site.nav.news", path: routepath.News},
	{key: "site.nav.contact", path: routepath.Contact},
}

// NavItems returns the primary navigation with the current section marked.
func NavItems(c Chrome) []NavItem {
	_, rest := locale.SplitPath(c.CurrentPath)
	items := make([]NavItem, 0, len(navPaths))
	for _, nav := range navPaths {
		active := rest == nav.path
		if nav.path != routepath.Home && strings.HasPrefix(rest, nav.path+"/") {
			active = true
		}
		items = append(items, NavItem{
			Key:    nav.key,
			Path:   routepath.Localized(c.Locale, nav.path),
			Active: active,
		})
	}
	return items
}

// SiteName returns the localized institution name from settings, falling
// back to the UI catalog.
func SiteName(c Chrome) string {
	if c.Settings != nil {
		if name := content.LocalizedText(c.Settings.Title, c.Locale); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(c.SiteName); name != "" {
		return name
	}
	return T(c.Loc, "site.name")
}

// SwitchLocaleURL returns the current page in the other locale.
func SwitchLocaleURL(c Chrome) string {
	if c.CurrentPath == "" {
		return routepath.Localized(c.Locale.Other(), routepath.Home)
	}
	return routepath.SwitchLocale(c.CurrentPath, c.Locale.Other())
}

var analyticsIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// AnalyticsTagID returns the analytics measurement id when it is safe to
// embed in a script, or "".
func AnalyticsTagID(c Chrome) string {
	id := strings.TrimSpace(c.AnalyticsID)
	if c.Preview || !analyticsIDPattern.MatchString(id) {
		return ""
	}
	return id
}

func (c Chrome) year() int {
	if c.Now.IsZero() {
		return time.Now().Year()
	}
	return c.Now.Year()
}
