package seo

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/services/web/locale"
)

// SitemapEntry is one logical page with its per-locale paths.
type SitemapEntry struct {
	Paths        map[locale.Locale]string
	LastModified time.Time
	ChangeFreq   string
	Priority     float64
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Links      []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// WriteSitemap writes a sitemap listing every entry in every locale it has
// a path for, each URL carrying hreflang alternates.
func WriteSitemap(w io.Writer, siteURL string, defaultLocale locale.Locale, entries []SitemapEntry) error {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, entry := range entries {
		alternates := Alternates(siteURL, entry.Paths, defaultLocale)
		links := make([]xhtmlLink, 0, len(alternates))
		for _, l := range locale.All {
			if href, ok := alternates[l.HTMLLang()]; ok {
				links = append(links, xhtmlLink{Rel: "alternate", Hreflang: l.HTMLLang(), Href: href})
			}
		}
		if href, ok := alternates["x-default"]; ok {
			links = append(links, xhtmlLink{Rel: "alternate", Hreflang: "x-default", Href: href})
		}
		for _, l := range locale.All {
			path, ok := entry.Paths[l]
			if !ok {
				continue
			}
			u := sitemapURL{
				Loc:        URLFor(siteURL, l, path),
				ChangeFreq: entry.ChangeFreq,
				Links:      links,
			}
			if !entry.LastModified.IsZero() {
				u.LastMod = entry.LastModified.UTC().Format("2006-01-02")
			}
			if entry.Priority > 0 {
				u.Priority = fmt.Sprintf("%.1f", entry.Priority)
			}
			set.URLs = append(set.URLs, u)
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write sitemap header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	return enc.Close()
}

// Robots returns robots.txt content allowing everything except the API and
// pointing at the sitemap.
func Robots(siteURL string) string {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	if siteURL != "" {
		b.WriteString("\nSitemap: " + siteURL + "/sitemap.xml\n")
	}
	return b.String()
}
