package templates

import (
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

func newsCard(h *htmlWriter, c Chrome, item content.NewsEvent) {
	slug := content.LocalizedSlug(item.Slug, c.Locale)
	h.raw(`<article class="card news-card"`)
	h.attr("data-category", string(item.Category))
	h.raw(">")
	image(h, c.Locale, item.Image, 640, "card-image", true)
	if item.Category != "" {
		h.element("span", "badge", CategoryLabel(c.Loc, item.Category))
	}
	h.raw("<h3>")
	if slug != "" {
		h.link(routepath.Localized(c.Locale, routepath.NewsItem(slug)), "", content.LocalizedText(item.Title, c.Locale))
	} else {
		h.text(content.LocalizedText(item.Title, c.Locale))
	}
	h.raw("</h3>")
	if date := FormatDateTime(c.Locale, item.PublishedAt); date != "" {
		h.raw("<time")
		h.attr("datetime", string(item.PublishedAt))
		h.raw(">")
		h.text(date)
		h.raw("</time>")
	}
	if excerpt := content.LocalizedText(item.Excerpt, c.Locale); excerpt != "" {
		h.element("p", "", excerpt)
	}
	h.raw("</article>")
}

func eventItem(h *htmlWriter, c Chrome, item content.NewsEvent) {
	slug := content.LocalizedSlug(item.Slug, c.Locale)
	h.raw(`<li class="event">`)
	if date := FormatDateTime(c.Locale, item.EventDate); date != "" {
		h.raw("<time")
		h.attr("datetime", string(item.EventDate))
		h.raw(">")
		h.text(date)
		h.raw("</time> ")
	}
	if slug != "" {
		h.link(routepath.Localized(c.Locale, routepath.NewsItem(slug)), "", content.LocalizedText(item.Title, c.Locale))
	} else {
		h.text(content.LocalizedText(item.Title, c.Locale))
	}
	if location := content.LocalizedText(item.Location, c.Locale); location != "" {
		h.element("span", "location", location)
	}
	h.raw("</li>")
}

func programCard(h *htmlWriter, c Chrome, program content.AcademicProgram) {
	slug := content.LocalizedSlug(program.Slug, c.Locale)
	h.raw(`<article class="card program-card">`)
	image(h, c.Locale, program.Image, 640, "card-image", true)
	h.element("h3", "", content.LocalizedText(program.Title, c.Locale))
	if level := content.LocalizedText(program.Level, c.Locale); level != "" {
		h.element("span", "badge", level)
	}
	if description := content.LocalizedText(program.Description, c.Locale); description != "" {
		h.element("p", "", description)
	}
	if slug != "" {
		h.link(routepath.Localized(c.Locale, routepath.Program(slug)), "more", T(c.Loc, "site.programs.view"))
	}
	h.raw("</article>")
}

func facilityCard(h *htmlWriter, c Chrome, facility content.Facility) {
	h.raw(`<article class="card facility-card">`)
	image(h, c.Locale, facility.Image, 640, "card-image", true)
	h.element("h3", "", content.LocalizedText(facility.Name, c.Locale))
	if description := content.LocalizedText(facility.Description, c.Locale); description != "" {
		h.element("p", "", description)
	}
	h.raw("</article>")
}

func staffCard(h *htmlWriter, c Chrome, member content.StaffMember) {
	h.raw(`<article class="card staff-card">`)
	image(h, c.Locale, member.Photo, 320, "portrait", true)
	h.element("h3", "", content.LocalizedText(member.Name, c.Locale))
	if role := content.LocalizedText(member.Role, c.Locale); role != "" {
		h.element("p", "role", role)
	}
	if bio := content.LocalizedText(member.Bio, c.Locale); bio != "" {
		h.element("p", "bio", bio)
	}
	h.raw("</article>")
}

// richText writes CMS body HTML. Bodies are authored in the CMS studio and
// trusted.
func richText(h *htmlWriter, text content.MultilingualText, l locale.Locale) {
	body := content.LocalizedText(text, l)
	if body == "" {
		return
	}
	h.raw(`<div class="rich-text">`)
	h.raw(body)
	h.raw("</div>")
}

// CategoryLabel returns the localized label for a news category.
func CategoryLabel(loc Localizer, category content.Category) string {
	if _, ok := content.ParseCategory(string(category)); !ok {
		return string(category)
	}
	return T(loc, "site.news.category."+string(category))
}
