package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// HomeView is the data behind the home page. Any section may be empty.
type HomeView struct {
	FeaturedNews   []content.NewsEvent
	UpcomingEvents []content.NewsEvent
	Programs       []content.AcademicProgram
	Facilities     []content.Facility
}

// HomePage renders the landing page.
func HomePage(c Chrome, v HomeView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="hero" id="home-hero">`)
		h.element("h1", "", SiteName(c))
		tagline := T(c.Loc, "site.tagline")
		if c.Settings != nil {
			if description := content.LocalizedText(c.Settings.Description, c.Locale); description != "" {
				tagline = description
			}
		}
		h.element("p", "tagline", tagline)
		h.link(routepath.Localized(c.Locale, routepath.Programs), "button", T(c.Loc, "site.home.hero_cta"))
		h.raw("</section>")

		if len(v.FeaturedNews) > 0 {
			h.raw(`<section class="featured-news" id="home-news">`)
			h.element("h2", "", T(c.Loc, "site.home.featured_news"))
			h.raw(`<div class="grid">`)
			for _, item := range v.FeaturedNews {
				newsCard(h, c, item)
			}
			h.raw("</div>")
			h.link(routepath.Localized(c.Locale, routepath.News), "more", T(c.Loc, "site.common.view_all"))
			h.raw("</section>")
		}
		if len(v.UpcomingEvents) > 0 {
			h.raw(`<section class="upcoming" id="home-events">`)
			h.element("h2", "", T(c.Loc, "site.home.upcoming_events"))
			h.raw("<ul>")
			for _, item := range v.UpcomingEvents {
				eventItem(h, c, item)
			}
			h.raw("</ul></section>")
		}
		if len(v.Programs) > 0 {
			h.raw(`<section class="programs" id="home-programs">`)
			h.element("h2", "", T(c.Loc, "site.home.programs"))
			h.raw(`<div class="grid">`)
			for _, program := range v.Programs {
				programCard(h, c, program)
			}
			h.raw("</div></section>")
		}
		if len(v.Facilities) > 0 {
			h.raw(`<section class="facilities" id="home-facilities">`)
			h.element("h2", "", T(c.Loc, "site.home.facilities"))
			h.raw(`<div class="grid">`)
			for _, facility := range v.Facilities {
				facilityCard(h, c, facility)
			}
			h.raw("</div>")
			h.link(routepath.Localized(c.Locale, routepath.Campus), "more", T(c.Loc, "site.common.view_all"))
			h.raw("</section>")
		}
	})
}

// AboutSection is one optional CMS page on the about page.
type AboutSection struct {
	ID       string
	TitleKey string
	Page     *content.Page
}

// AboutView is the data behind the about page.
type AboutView struct {
	Sections   []AboutSection
	Leadership []content.StaffMember
	Staff      []content.StaffMember
}

// AboutPage renders the about page. Sections without a page are omitted.
func AboutPage(c Chrome, v AboutView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.about.title"))
		for _, section := range v.Sections {
			if section.Page == nil {
				continue
			}
			h.raw(`<section class="about-section"`)
			h.attr("id", "about-"+section.ID)
			h.raw(">")
			title := content.LocalizedText(section.Page.Title, c.Locale)
			if title == "" {
				title = T(c.Loc, section.TitleKey)
			}
			h.element("h2", "", title)
			image(h, c.Locale, section.Page.HeroImage, 1200, "hero-image", true)
			richText(h, section.Page.Body, c.Locale)
			h.raw("</section>")
		}
		staffSection(h, c, "about-leadership", "site.about.leadership", v.Leadership)
		staffSection(h, c, "about-staff", "site.about.staff", v.Staff)
	})
}

func staffSection(h *htmlWriter, c Chrome, id, titleKey string, members []content.StaffMember) {
	if len(members) == 0 {
		return
	}
	h.raw(`<section class="staff"`)
	h.attr("id", id)
	h.raw(">")
	h.element("h2", "", T(c.Loc, titleKey))
	h.raw(`<div class="grid">`)
	for _, member := range members {
		staffCard(h, c, member)
	}
	h.raw("</div></section>")
}

// ProgramsPage lists academic programs.
func ProgramsPage(c Chrome, programs []content.AcademicProgram) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.programs.title"))
		if len(programs) == 0 {
			h.element("p", "empty", T(c.Loc, "site.programs.empty"))
			return
		}
		h.raw(`<div class="grid" id="program-list">`)
		for _, program := range programs {
			programCard(h, c, program)
		}
		h.raw("</div>")
	})
}

// ProgramPage renders one academic program.
func ProgramPage(c Chrome, program content.AcademicProgram) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<article class="program" id="program-detail">`)
		h.element("h1", "", content.LocalizedText(program.Title, c.Locale))
		image(h, c.Locale, program.Image, 1200, "hero-image", false)
		h.raw("<dl>")
		if level := content.LocalizedText(program.Level, c.Locale); level != "" {
			h.element("dt", "", T(c.Loc, "site.programs.level"))
			h.element("dd", "", level)
		}
		if duration := content.LocalizedText(program.Duration, c.Locale); duration != "" {
			h.element("dt", "", T(c.Loc, "site.programs.duration"))
			h.element("dd", "", duration)
		}
		h.raw("</dl>")
		if description := content.LocalizedText(program.Description, c.Locale); description != "" {
			h.element("p", "lead", description)
		}
		if curriculum := content.LocalizedArray(program.Curriculum, c.Locale); len(curriculum) > 0 {
			h.element("h2", "", T(c.Loc, "site.programs.curriculum"))
			h.raw(`<ul class="curriculum">`)
			for _, subject := range curriculum {
				h.element("li", "", subject)
			}
			h.raw("</ul>")
		}
		h.raw("</article>")
	})
}

// AdmissionsView is the data behind the admissions page.
type AdmissionsView struct {
	// Page is the optional CMS "admissions" page.
	Page     *content.Page
	Programs []content.AcademicProgram
}

// AdmissionsPage renders admissions guidance.
func AdmissionsPage(c Chrome, v AdmissionsView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.admissions.title"))
		if v.Page != nil && content.LocalizedText(v.Page.Body, c.Locale) != "" {
			richText(h, v.Page.Body, c.Locale)
		} else {
			h.element("p", "lead", T(c.Loc, "site.admissions.intro"))
		}
		h.raw(`<section class="steps" id="admission-steps">`)
		h.element("h2", "", T(c.Loc, "site.admissions.steps"))
		h.raw("<ol>")
		for _, key := range []string{"site.admissions.step_1", "site.admissions.step_2", "site.admissions.step_3"} {
			h.element("li", "", T(c.Loc, key))
		}
		h.raw("</ol></section>")
		if len(v.Programs) > 0 {
			h.raw(`<section class="programs">`)
			h.element("h2", "", T(c.Loc, "site.programs.title"))
			h.raw("<ul>")
			for _, program := range v.Programs {
				h.raw("<li>")
				if slug := content.LocalizedSlug(program.Slug, c.Locale); slug != "" {
					h.link(routepath.Localized(c.Locale, routepath.Program(slug)), "", content.LocalizedText(program.Title, c.Locale))
				} else {
					h.text(content.LocalizedText(program.Title, c.Locale))
				}
				h.raw("</li>")
			}
			h.raw("</ul></section>")
		}
		h.link(routepath.Localized(c.Locale, routepath.Contact), "button", T(c.Loc, "site.admissions.contact_cta"))
	})
}

// CampusPage lists campus facilities, featured ones first.
func CampusPage(c Chrome, facilities []content.Facility) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.campus.title"))
		if len(facilities) == 0 {
			h.element("p", "empty", T(c.Loc, "site.campus.empty"))
			return
		}
		var featured, rest []content.Facility
		for _, facility := range facilities {
			if facility.Featured {
				featured = append(featured, facility)
			} else {
				rest = append(rest, facility)
			}
		}
		if len(featured) > 0 {
			h.raw(`<section class="featured" id="campus-featured">`)
			h.element("h2", "", T(c.Loc, "site.campus.featured"))
			h.raw(`<div class="grid">`)
			for _, facility := range featured {
				facilityCard(h, c, facility)
			}
			h.raw("</div></section>")
		}
		if len(rest) > 0 {
			h.raw(`<div class="grid" id="campus-facilities">`)
			for _, facility := range rest {
				facilityCard(h, c, facility)
			}
			h.raw("</div>")
		}
	})
}

// ContactView is the data behind the contact page.
type ContactView struct {
	// Page is the optional CMS "contact" page.
	Page *content.Page
}

// ContactPage renders contact details from site settings.
func ContactPage(c Chrome, v ContactView) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.element("h1", "", T(c.Loc, "site.contact.title"))
		if v.Page != nil {
			richText(h, v.Page.Body, c.Locale)
		}
		if c.Settings == nil {
			return
		}
		h.raw(`<section id="contact-details">`)
		contactBlock(h, c, c.Settings.Contact)
		if mapURL := c.Settings.Contact.MapURL; mapURL != "" {
			h.raw("<a")
			h.href(mapURL)
			h.raw(` class="map-link" rel="noopener" target="_blank">`)
			h.text(T(c.Loc, "site.contact.map"))
			h.raw("</a>")
		}
		h.raw("</section>")
	})
}
