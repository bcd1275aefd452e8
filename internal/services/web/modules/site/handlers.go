package site

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/pagedata"
	"github.com/madrasahweb/site/internal/services/web/platform/pagerender"
	"github.com/madrasahweb/site/internal/services/web/platform/weberror"
	"github.com/madrasahweb/site/internal/services/web/routepath"
	"github.com/madrasahweb/site/internal/services/web/seo"
	webtemplates "github.com/madrasahweb/site/internal/services/web/templates"
)

const (
	homeFeaturedNewsLimit = 3
	homeUpcomingLimit     = 3
	newsUpcomingLimit     = 5
)

// aboutSections are the optional CMS pages shown on the about page, in
// order.
var aboutSections = []webtemplates.AboutSection{
	{ID: "about", TitleKey: "site.about.title"},
	{ID: "history", TitleKey: "site.about.history"},
	{ID: "vision", TitleKey: "site.about.vision"},
	{ID: "philosophy", TitleKey: "site.about.philosophy"},
}

type handlers struct {
	cfg Config
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		settings *content.SiteSettings
		view     webtemplates.HomeView
	)
	svc := h.cfg.Content
	h.cfg.Loader.Load(ctx,
		pagedata.Task{Name: "settings", Run: func(ctx context.Context) (err error) {
			settings, err = svc.GetSiteSettings(ctx)
			return err
		}},
		pagedata.Task{Name: "featured_news", Run: func(ctx context.Context) (err error) {
			view.FeaturedNews, err = svc.GetFeaturedNewsEvents(ctx, homeFeaturedNewsLimit)
			return err
		}},
		pagedata.Task{Name: "upcoming_events", Run: func(ctx context.Context) (err error) {
			view.UpcomingEvents, err = svc.GetUpcomingEvents(ctx, h.cfg.Now(), homeUpcomingLimit)
			return err
		}},
		pagedata.Task{Name: "programs", Run: func(ctx context.Context) (err error) {
			view.Programs, err = svc.GetAllAcademicPrograms(ctx)
			return err
		}},
		pagedata.Task{Name: "facilities", Run: func(ctx context.Context) (err error) {
			view.Facilities, err = svc.GetFeaturedFacilities(ctx)
			return err
		}},
	)
	c := h.chrome(r, settings, pageMeta{Paths: localeRoot()})
	h.writePage(w, r, c, webtemplates.HomePage(c, view))
}

func (h handlers) handleAbout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)

	view := webtemplates.AboutView{}
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.about.title")}
	for _, section := range aboutSections {
		page, err := h.optionalPage(ctx, section.ID)
		if err != nil {
			continue
		}
		section.Page = page
		view.Sections = append(view.Sections, section)
		if section.ID == "about" && page != nil {
			applyPageSEO(&meta, page, l)
		}
	}
	if leaders, err := h.cfg.Content.GetLeadershipTeam(ctx); err == nil {
		view.Leadership = leaders
	} else {
		h.warn(ctx, "leadership", err)
	}
	if staff, err := h.cfg.Content.GetAllStaff(ctx); err == nil {
		for _, member := range staff {
			if !member.IsLeadership {
				view.Staff = append(view.Staff, member)
			}
		}
	} else {
		h.warn(ctx, "staff", err)
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.AboutPage(c, view))
}

func (h handlers) handlePrograms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.programs.title")}
	programs, err := h.cfg.Content.GetAllAcademicPrograms(ctx)
	if err != nil {
		h.writeError(w, r, settings, meta, err)
		return
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.ProgramsPage(c, programs))
}

func (h handlers) handleProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	slug := r.PathValue("slug")

	program, err := h.cfg.Content.GetAcademicProgramBySlug(ctx, slug, l)
	if err == nil && program == nil {
		// Links fall back to the other locale's slug when one is missing.
		program, err = h.cfg.Content.GetAcademicProgramBySlug(ctx, slug, l.Other())
	}
	if err != nil {
		h.writeError(w, r, settings, pageMeta{}, err)
		return
	}
	if program == nil {
		h.writeNotFound(w, r, settings)
		return
	}
	meta := pageMeta{
		Title:        content.LocalizedText(program.Title, l),
		Descriptions: []string{content.LocalizedText(program.Description, l)},
		Paths:        localizedPaths(program.Slug, routepath.Program),
		Image:        program.Image,
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.ProgramPage(c, *program))
}

func (h handlers) handleAdmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)

	view := webtemplates.AdmissionsView{}
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.admissions.title"), Descriptions: []string{locale.Printer(l).Sprintf("site.admissions.intro")}}
	if page, err := h.optionalPage(ctx, "admissions"); err == nil && page != nil {
		view.Page = page
		applyPageSEO(&meta, page, l)
	}
	if programs, err := h.cfg.Content.GetAllAcademicPrograms(ctx); err == nil {
		view.Programs = programs
	} else {
		h.warn(ctx, "programs", err)
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.AdmissionsPage(c, view))
}

func (h handlers) handleCampus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.campus.title")}
	facilities, err := h.cfg.Content.GetAllFacilities(ctx)
	if err != nil {
		h.writeError(w, r, settings, meta, err)
		return
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.CampusPage(c, facilities))
}

func (h handlers) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	query := r.URL.Query()

	view := webtemplates.NewsView{Query: strings.TrimSpace(query.Get(routepath.NewsSearchQuery))}
	if category, ok := content.ParseCategory(query.Get(routepath.NewsCategoryQuery)); ok {
		view.Category = category
	}
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.news.title"), Paths: seo.SamePath(routepath.News)}

	var err error
	switch {
	case view.Query != "":
		view.Items, err = h.cfg.Content.SearchNewsEvents(ctx, view.Query, l)
	case view.Category != "":
		view.Items, err = h.cfg.Content.GetNewsEventsByCategory(ctx, view.Category)
	default:
		view.Items, err = h.cfg.Content.GetAllNewsEvents(ctx)
		if err == nil {
			upcoming, upcomingErr := h.cfg.Content.GetUpcomingEvents(ctx, h.cfg.Now(), newsUpcomingLimit)
			if upcomingErr != nil {
				h.warn(ctx, "upcoming_events", upcomingErr)
			}
			view.Upcoming = upcoming
		}
	}
	if err != nil {
		h.writeError(w, r, settings, meta, err)
		return
	}
	c := h.chrome(r, settings, meta)
	if view.Query != "" || view.Category != "" {
		c.Meta.NoIndex = true
	}
	h.writePage(w, r, c, webtemplates.NewsPage(c, view))
}

func (h handlers) handleNewsItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	slug := r.PathValue("slug")

	item, err := h.cfg.Content.GetNewsEventBySlug(ctx, slug, l)
	if err == nil && item == nil {
		item, err = h.cfg.Content.GetNewsEventBySlug(ctx, slug, l.Other())
	}
	if err != nil {
		h.writeError(w, r, settings, pageMeta{}, err)
		return
	}
	if item == nil {
		h.writeNotFound(w, r, settings)
		return
	}
	meta := pageMeta{
		Title:        content.LocalizedText(item.Title, l),
		Descriptions: []string{content.LocalizedText(item.Excerpt, l), content.LocalizedText(item.Body, l)},
		Paths:        localizedPaths(item.Slug, routepath.NewsItem),
		Image:        item.Image,
		Article:      true,
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.NewsItemPage(c, *item))
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings := h.settings(ctx)
	l := locale.FromContext(ctx)
	meta := pageMeta{Title: locale.Printer(l).Sprintf("site.contact.title")}
	view := webtemplates.ContactView{}
	if page, err := h.optionalPage(ctx, "contact"); err == nil && page != nil {
		view.Page = page
		applyPageSEO(&meta, page, l)
	}
	c := h.chrome(r, settings, meta)
	h.writePage(w, r, c, webtemplates.ContactPage(c, view))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeNotFound(w, r, h.settings(r.Context()))
}

// handleUnmatched redirects "/{locale}/about/" to "/{locale}/about" and
// serves the not-found page for everything else.
func (h handlers) handleUnmatched(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if target, ok := trimTrailingSlash(r.URL.Path); ok {
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
	}
	h.handleNotFound(w, r)
}

func trimTrailingSlash(path string) (string, bool) {
	if !strings.HasSuffix(path, "/") {
		return "", false
	}
	trimmed := strings.TrimRight(path, "/")
	if strings.Count(trimmed, "/") < 2 || strings.Contains(trimmed, "//") {
		return "", false
	}
	return trimmed, true
}

// optionalPage fetches a CMS page whose absence or failure must not break
// the surrounding page.
func (h handlers) optionalPage(ctx context.Context, slug string) (*content.Page, error) {
	page, err := h.cfg.Content.GetPageBySlug(ctx, slug)
	if err != nil {
		h.warn(ctx, "page:"+slug, err)
		return nil, err
	}
	return page, nil
}

func (h handlers) warn(ctx context.Context, section string, err error) {
	h.cfg.Logger.WarnContext(ctx, "page section unavailable", "section", section, logging.Err(err))
}

func (h handlers) writePage(w http.ResponseWriter, r *http.Request, c webtemplates.Chrome, body templ.Component) {
	if err := pagerender.WritePage(w, r, pagerender.Page{Chrome: c, Body: body}); err != nil {
		h.cfg.Logger.ErrorContext(r.Context(), "render page", "path", r.URL.Path, logging.Err(err))
		h.errorRenderer().WriteErrorPage(w, r, http.StatusInternalServerError, err, c)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, settings *content.SiteSettings, meta pageMeta, err error) {
	h.cfg.Logger.ErrorContext(r.Context(), "load page content", "path", r.URL.Path, logging.Err(err))
	h.errorRenderer().WriteError(w, r, err, h.chrome(r, settings, meta))
}

func (h handlers) writeNotFound(w http.ResponseWriter, r *http.Request, settings *content.SiteSettings) {
	h.errorRenderer().WriteErrorPage(w, r, http.StatusNotFound, nil, h.chrome(r, settings, pageMeta{}))
}

func (h handlers) errorRenderer() weberror.Renderer {
	return weberror.Renderer{ShowDetails: h.cfg.ShowErrorDetails}
}

func applyPageSEO(meta *pageMeta, page *content.Page, l locale.Locale) {
	if page == nil {
		return
	}
	if page.SEO != nil {
		if title := content.LocalizedText(page.SEO.MetaTitle, l); title != "" {
			meta.Title = title
		}
		if description := content.LocalizedText(page.SEO.MetaDescription, l); description != "" {
			meta.Descriptions = append([]string{description}, meta.Descriptions...)
		}
	}
	meta.Descriptions = append(meta.Descriptions, content.LocalizedText(page.Body, l))
	if meta.Image.Ref() == "" {
		meta.Image = page.HeroImage
	}
}

func localeRoot() map[locale.Locale]string {
	return seo.SamePath(routepath.Home)
}
