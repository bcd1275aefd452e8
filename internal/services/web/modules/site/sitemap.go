package site

import (
	"bytes"
	"net/http"
	"time"

	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/routepath"
	"github.com/madrasahweb/site/internal/services/web/seo"
)

func (h handlers) handleSitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries := make([]seo.SitemapEntry, 0, len(routepath.StaticPages))
	for _, path := range routepath.StaticPages {
		priority := 0.8
		if path == routepath.Home {
			priority = 1
		}
		entries = append(entries, seo.SitemapEntry{Paths: seo.SamePath(path), ChangeFreq: "weekly", Priority: priority})
	}

	if programs, err := h.cfg.Content.GetAllAcademicPrograms(ctx); err == nil {
		for _, program := range programs {
			if paths := localizedPaths(program.Slug, routepath.Program); len(paths) > 0 {
				entries = append(entries, seo.SitemapEntry{Paths: paths, LastModified: lastModified(program.UpdatedAt), ChangeFreq: "monthly", Priority: 0.7})
			}
		}
	} else {
		h.warn(ctx, "sitemap:programs", err)
	}
	if news, err := h.cfg.Content.GetAllNewsEvents(ctx); err == nil {
		for _, item := range news {
			if paths := localizedPaths(item.Slug, routepath.NewsItem); len(paths) > 0 {
				modified := item.UpdatedAt
				if modified.IsZero() {
					modified = item.PublishedAt
				}
				entries = append(entries, seo.SitemapEntry{Paths: paths, LastModified: lastModified(modified), ChangeFreq: "monthly", Priority: 0.6})
			}
		}
	} else {
		h.warn(ctx, "sitemap:news", err)
	}

	var buf bytes.Buffer
	if err := seo.WriteSitemap(&buf, h.siteURL(r), h.cfg.DefaultLocale, entries); err != nil {
		h.cfg.Logger.ErrorContext(ctx, "write sitemap", logging.Err(err))
		httpx.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(buf.Bytes())
}

func (h handlers) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(h.siteURL(r))))
}

// siteURL returns the configured public origin, or one derived from the
// request when unset.
func (h handlers) siteURL(r *http.Request) string {
	if h.cfg.SiteURL != "" {
		return h.cfg.SiteURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func lastModified(value content.DateTime) time.Time {
	t, _ := value.Time()
	return t
}
