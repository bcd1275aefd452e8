package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// NewsView is the data behind the news listing.
type NewsView struct {
	Items    []content.NewsEvent
	Query    string
	Category content.Category
	Upcoming []content.NewsEvent
}

// NewsPage renders the news listing with search and category filters.
func NewsPage(c Chrome, v NewsView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.news.title"))

		h.raw(`<form class="news-search" role="search" method="get"`)
		h.attr("action", routepath.Localized(c.Locale, routepath.News))
		h.raw(`><label for="news-q">`)
		h.text(T(c.Loc, "site.news.search_label"))
		h.raw(`</label><input type="search" id="news-q"`)
		h.attr("name", routepath.NewsSearchQuery)
		h.attr("value", v.Query)
		h.attr("placeholder", T(c.Loc, "site.news.search_placeholder"))
		h.raw(`><button type="submit">`)
		h.text(T(c.Loc, "site.news.search_button"))
		h.raw("</button></form>")

		h.raw(`<nav class="categories" id="news-categories"><a`)
		h.href(routepath.Localized(c.Locale, routepath.News))
		if v.Category == "" && v.Query == "" {
			h.raw(` aria-current="page"`)
		}
		h.raw(">")
		h.text(T(c.Loc, "site.news.all"))
		h.raw("</a>")
		for _, category := range content.Categories {
			h.raw("<a")
			h.href(routepath.Localized(c.Locale, routepath.NewsCategory(category)))
			if v.Category == category {
				h.raw(` aria-current="page"`)
			}
			h.raw(">")
			h.text(CategoryLabel(c.Loc, category))
			h.raw("</a>")
		}
		h.raw("</nav>")

		if v.Query != "" {
			h.element("p", "results-for", T(c.Loc, "site.news.results_for", v.Query))
		}
		if len(v.Upcoming) > 0 {
			h.raw(`<section class="upcoming" id="news-upcoming">`)
			h.element("h2", "", T(c.Loc, "site.news.upcoming"))
			h.raw("<ul>")
			for _, item := range v.Upcoming {
				eventItem(h, c, item)
			}
			h.raw("</ul></section>")
		}
		if len(v.Items) == 0 {
			h.element("p", "empty", T(c.Loc, "site.news.empty"))
			return
		}
		h.raw(`<div class="grid" id="news-list">`)
		for _, item := range v.Items {
			newsCard(h, c, item)
		}
		h.raw("</div>")
	})
}

// NewsItemPage renders one news item or event.
func NewsItemPage(c Chrome, item content.NewsEvent) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<article class="news-item" id="news-detail">`)
		if item.Category != "" {
			h.element("span", "badge", CategoryLabel(c.Loc, item.Category))
		}
		h.element("h1", "", content.LocalizedText(item.Title, c.Locale))
		if date := FormatDateTime(c.Locale, item.PublishedAt); date != "" {
			h.element("p", "published", T(c.Loc, "site.news.published_on", date))
		}
		if item.Category == content.CategoryEvent {
			h.raw(`<dl class="event-details">`)
			if date := FormatDateTime(c.Locale, item.EventDate); date != "" {
				h.element("dt", "", T(c.Loc, "site.news.event_date"))
				h.element("dd", "", date)
			}
			if location := content.LocalizedText(item.Location, c.Locale); location != "" {
				h.element("dt", "", T(c.Loc, "site.news.location"))
				h.element("dd", "", location)
			}
			h.raw("</dl>")
		}
		image(h, c.Locale, item.Image, 1200, "hero-image", false)
		if excerpt := content.LocalizedText(item.Excerpt, c.Locale); excerpt != "" {
			h.element("p", "lead", excerpt)
		}
		richText(h, item.Body, c.Locale)
		h.link(routepath.Localized(c.Locale, routepath.News), "more", T(c.Loc, "site.news.title"))
		h.raw("</article>")
	})
}
