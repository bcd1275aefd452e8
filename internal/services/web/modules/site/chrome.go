package site

import (
	"context"
	"net/http"

	"github.com/madrasahweb/site/internal/platform/assets/imagecdn"
	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/preview"
	"github.com/madrasahweb/site/internal/services/web/routepath"
	"github.com/madrasahweb/site/internal/services/web/seo"
	webtemplates "github.com/madrasahweb/site/internal/services/web/templates"
)

// pageMeta is what a handler knows about its page before SEO derivation.
type pageMeta struct {
	// Title is the page part of the title; empty for the home page.
	Title string
	// Descriptions are candidates in priority order, HTML allowed.
	Descriptions []string
	// Paths maps each locale to the page's locale-relative path.
	Paths   map[locale.Locale]string
	Image   *content.ImageRef
	Article bool
}

// settings loads site settings for chrome. Failures are logged and yield
// nil so pages still render.
func (h handlers) settings(ctx context.Context) *content.SiteSettings {
	settings, err := h.cfg.Content.GetSiteSettings(ctx)
	if err != nil {
		h.cfg.Logger.WarnContext(ctx, "site settings unavailable", logging.Err(err))
		return nil
	}
	return settings
}

func (h handlers) chrome(r *http.Request, settings *content.SiteSettings, meta pageMeta) webtemplates.Chrome {
	ctx := r.Context()
	l := locale.FromContext(ctx)
	c := webtemplates.Chrome{
		Locale:      l,
		Loc:         locale.Printer(l),
		Settings:    settings,
		CurrentPath: r.URL.Path,
		Preview:     preview.Enabled(ctx),
		AnalyticsID: h.cfg.AnalyticsID,
		SiteName:    h.cfg.SiteName,
		Now:         h.cfg.Now(),
	}
	siteName := webtemplates.SiteName(c)

	descriptions := append([]string(nil), meta.Descriptions...)
	if settings != nil {
		descriptions = append(descriptions, content.LocalizedText(settings.Description, l))
	}
	descriptions = append(descriptions, webtemplates.T(c.Loc, "site.meta_description"))

	paths := meta.Paths
	if len(paths) == 0 {
		_, rest := locale.SplitPath(r.URL.Path)
		paths = seo.SamePath(rest)
	}
	image := meta.Image
	if image.Ref() == "" && settings != nil {
		image = settings.Logo
	}
	ogType := "website"
	if meta.Article {
		ogType = "article"
	}

	c.Meta = seo.Metadata{
		Title:       seo.PageTitle(meta.Title, siteName),
		Description: seo.Description(descriptions...),
		Canonical:   h.absoluteURL(l, paths[l]),
		Alternates:  seo.Alternates(h.cfg.SiteURL, paths, h.cfg.DefaultLocale),
		Image:       h.ogImage(image),
		Type:        ogType,
		Locale:      l,
		SiteName:    siteName,
		NoIndex:     c.Preview,
	}
	return c
}

func (h handlers) absoluteURL(l locale.Locale, path string) string {
	if h.cfg.SiteURL == "" {
		return routepath.Localized(l, path)
	}
	return seo.URLFor(h.cfg.SiteURL, l, path)
}

// ogImage returns an absolute 1200x630 share image URL, or "".
func (h handlers) ogImage(ref *content.ImageRef) string {
	if ref.Ref() == "" {
		return ""
	}
	if h.cfg.Images.Configured() {
		if url, err := h.cfg.Images.URL(imagecdn.Request{Ref: ref.Ref(), Width: 1200, Height: 630, Fit: "crop"}); err == nil {
			return url
		}
	}
	if h.cfg.SiteURL == "" {
		return ""
	}
	return h.cfg.SiteURL + routepath.Image(ref.Ref(), 1200)
}

// localizedPaths builds per-locale detail paths from a multilingual slug.
func localizedPaths(slug content.MultilingualSlug, build func(string) string) map[locale.Locale]string {
	paths := make(map[locale.Locale]string, len(locale.All))
	for _, l := range locale.All {
		if s := content.LocalizedSlug(slug, l); s != "" {
			paths[l] = build(s)
		}
	}
	return paths
}
