package templates

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// Layout renders the full document around the children in ctx.
func Layout(c Chrome) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw("<!doctype html>")
		h.raw("<html")
		h.attr("lang", c.Locale.HTMLLang())
		h.raw(">")
		head(h, c)
		h.raw("<body>")
		if c.Preview {
			previewBanner(h, c)
		}
		h.raw(`<a class="skip-link" href="#main">`)
		h.text(T(c.Loc, "site.skip_to_content"))
		h.raw("</a>")
		header(h, c)
		h.raw(`<main id="main">`)
		h.component(ctx, templ.GetChildren(ctx))
		h.raw("</main>")
		footer(h, c)
		h.raw("</body></html>")
	})
}

func head(h *htmlWriter, c Chrome) {
	meta := c.Meta
	h.raw(`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.element("title", "", meta.Title)
	if meta.Description != "" {
		h.raw(`<meta name="description"`)
		h.attr("content", meta.Description)
		h.raw(">")
	}
	if meta.NoIndex {
		h.raw(`<meta name="robots" content="noindex, nofollow">`)
	}
	if meta.Canonical != "" {
		h.raw(`<link rel="canonical"`)
		h.attr("href", meta.Canonical)
		h.raw(">")
	}
	hreflangs := make([]string, 0, len(meta.Alternates))
	for lang := range meta.Alternates {
		hreflangs = append(hreflangs, lang)
	}
	sort.Strings(hreflangs)
	for _, lang := range hreflangs {
		h.raw(`<link rel="alternate"`)
		h.attr("hreflang", lang)
		h.attr("href", meta.Alternates[lang])
		h.raw(">")
	}

	property := func(name, value string) {
		if value == "" {
			return
		}
		h.raw(`<meta`)
		h.attr("property", name)
		h.attr("content", value)
		h.raw(">")
	}
	property("og:title", meta.Title)
	property("og:description", meta.Description)
	property("og:type", meta.OGType())
	property("og:url", meta.Canonical)
	property("og:site_name", meta.SiteName)
	if meta.Locale.Valid() {
		property("og:locale", meta.Locale.OpenGraph())
		property("og:locale:alternate", meta.Locale.Other().OpenGraph())
	}
	property("og:image", meta.Image)
	if meta.Image != "" {
		h.raw(`<meta name="twitter:card" content="summary_large_image">`)
	} else {
		h.raw(`<meta name="twitter:card" content="summary">`)
	}

	h.raw(`<link rel="icon"`)
	h.attr("href", routepath.Favicon)
	h.raw(`><link rel="icon" type="image/png" sizes="192x192"`)
	h.attr("href", routepath.Icon)
	h.raw(`><link rel="apple-touch-icon"`)
	h.attr("href", routepath.AppleIcon)
	h.raw(`><link rel="stylesheet"`)
	h.attr("href", routepath.StaticPrefix+"site.css")
	h.raw(">")
	if id := AnalyticsTagID(c); id != "" {
		analytics(h, id)
	}
	h.raw("</head>")
}

func analytics(h *htmlWriter, id string) {
	h.raw(`<script async src="https://www.googletagmanager.com/gtag/js?id=` + id + `"></script>`)
	h.raw(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','` + id + `');</script>`)
}

func previewBanner(h *htmlWriter, c Chrome) {
	h.raw(`<div class="preview-banner" role="status" id="preview-banner">`)
	h.element("span", "", T(c.Loc, "site.preview.banner"))
	h.raw(" ")
	h.link(routepath.DraftDisableWithRedirect(c.CurrentPath), "preview-exit", T(c.Loc, "site.preview.exit"))
	h.raw("</div>")
}

func header(h *htmlWriter, c Chrome) {
	h.raw(`<header class="site-header"><a class="brand"`)
	h.href(routepath.Localized(c.Locale, routepath.Home))
	h.raw(">")
	if c.Settings != nil {
		image(h, c.Locale, c.Settings.Logo, 96, "brand-logo", false)
	}
	h.element("span", "brand-name", SiteName(c))
	h.raw("</a>")

	h.raw(`<nav class="site-nav"><ul>`)
	for _, item := range NavItems(c) {
		h.raw("<li><a")
		h.href(item.Path)
		if item.Active {
			h.raw(` aria-current="page" class="active"`)
		}
		h.raw(">")
		h.text(T(c.Loc, item.Key))
		h.raw("</a></li>")
	}
	h.raw("</ul></nav>")

	other := c.Locale.Other()
	h.raw(`<a class="lang-switch" id="lang-switch"`)
	h.href(SwitchLocaleURL(c))
	h.attr("hreflang", other.HTMLLang())
	h.attr("lang", other.HTMLLang())
	h.raw(">")
	h.text(T(c.Loc, "site.nav.switch_language"))
	h.raw("</a></header>")
}

func footer(h *htmlWriter, c Chrome) {
	h.raw(`<footer class="site-footer">`)
	if settings := c.Settings; settings != nil {
		contactBlock(h, c, settings.Contact)
		if len(settings.Social) > 0 {
			h.raw(`<div class="social">`)
			h.element("h2", "", T(c.Loc, "site.footer.follow"))
			h.raw("<ul>")
			for _, link := range settings.Social {
				if strings.TrimSpace(link.URL) == "" {
					continue
				}
				h.raw("<li><a")
				h.href(link.URL)
				h.raw(` rel="noopener" target="_blank">`)
				h.text(link.Platform)
				h.raw("</a></li>")
			}
			h.raw("</ul></div>")
		}
		if text := content.LocalizedText(settings.FooterText, c.Locale); text != "" {
			h.element("p", "footer-text", text)
		}
	}
	h.raw(`<p class="copyright">© `)
	h.text(LocalizeDigits(c.Locale, strconv.Itoa(c.year())))
	h.raw(" ")
	h.text(SiteName(c))
	h.raw(". ")
	h.text(T(c.Loc, "site.footer.rights"))
	h.raw("</p></footer>")
}

func contactBlock(h *htmlWriter, c Chrome, contact content.ContactInfo) {
	h.raw(`<address class="contact">`)
	if address := content.LocalizedText(contact.Address, c.Locale); address != "" {
		h.raw("<p><strong>")
		h.text(T(c.Loc, "site.contact.address"))
		h.raw("</strong> ")
		h.text(address)
		h.raw("</p>")
	}
	if phone := strings.TrimSpace(contact.Phone); phone != "" {
		h.raw("<p><strong>")
		h.text(T(c.Loc, "site.contact.phone"))
		h.raw("</strong> ")
		h.link("tel:"+strings.ReplaceAll(phone, " ", ""), "", LocalizeDigits(c.Locale, phone))
		h.raw("</p>")
	}
	if email := strings.TrimSpace(contact.Email); email != "" {
		h.raw("<p><strong>")
		h.text(T(c.Loc, "site.contact.email"))
		h.raw("</strong> ")
		h.link("mailto:"+email, "", email)
		h.raw("</p>")
	}
	h.raw("</address>")
}

// image writes an <img> through the image proxy, or nothing when ref is
// unset.
func image(h *htmlWriter, l locale.Locale, ref *content.ImageRef, width int, class string, lazy bool) {
	if ref.Ref() == "" {
		return
	}
	h.raw("<img")
	h.attr("src", routepath.Image(ref.Ref(), width))
	h.attr("alt", content.LocalizedText(ref.Alt, l))
	if class != "" {
		h.attr("class", class)
	}
	if lazy {
		h.raw(` loading="lazy"`)
	}
	h.raw(">")
}
