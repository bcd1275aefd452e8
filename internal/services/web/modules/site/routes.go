package site

import (
	"net/http"

	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Sitemap, h.handleSitemap)
	mux.HandleFunc(http.MethodGet+" "+routepath.Robots, h.handleRobots)

	pages := http.NewServeMux()
	prefix := routepath.LocalePattern
	pages.HandleFunc(http.MethodGet+" "+prefix+"/{$}", h.handleHome)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.About, h.handleAbout)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.Programs, h.handlePrograms)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.ProgramPattern, h.handleProgram)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.Admissions, h.handleAdmissions)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.Campus, h.handleCampus)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.News, h.handleNews)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.NewsItemPattern, h.handleNewsItem)
	pages.HandleFunc(http.MethodGet+" "+prefix+routepath.Contact, h.handleContact)
	pages.HandleFunc("/", h.handleUnmatched)

	router := locale.Router{DefaultLocale: h.cfg.DefaultLocale, NotFound: http.HandlerFunc(h.handleNotFound)}
	mux.Handle(routepath.Root, router.Middleware(pages))
}
