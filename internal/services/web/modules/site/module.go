// Package site serves the localized institution pages, the sitemap and
// robots.txt.
package site

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/platform/assets/imagecdn"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/pagedata"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// ContentService is the content read surface the site pages use.
type ContentService interface {
	GetSiteSettings(ctx context.Context) (*content.SiteSettings, error)
	GetPageBySlug(ctx context.Context, slug string) (*content.Page, error)
	GetAllNewsEvents(ctx context.Context) ([]content.NewsEvent, error)
	GetFeaturedNewsEvents(ctx context.Context, limit int) ([]content.NewsEvent, error)
	GetNewsEventBySlug(ctx context.Context, slug string, l locale.Locale) (*content.NewsEvent, error)
	GetNewsEventsByCategory(ctx context.Context, category content.Category) ([]content.NewsEvent, error)
	GetUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]content.NewsEvent, error)
	SearchNewsEvents(ctx context.Context, term string, l locale.Locale) ([]content.NewsEvent, error)
	GetAllAcademicPrograms(ctx context.Context) ([]content.AcademicProgram, error)
	GetAcademicProgramBySlug(ctx context.Context, slug string, l locale.Locale) (*content.AcademicProgram, error)
	GetLeadershipTeam(ctx context.Context) ([]content.StaffMember, error)
	GetAllStaff(ctx context.Context) ([]content.StaffMember, error)
	GetAllFacilities(ctx context.Context) ([]content.Facility, error)
	GetFeaturedFacilities(ctx context.Context) ([]content.Facility, error)
}

// Config carries the site module's dependencies.
type Config struct {
	Content ContentService
	// Loader fans out home page sections. Nil loads them sequentially.
	Loader *pagedata.Loader
	Images *imagecdn.Builder
	// SiteURL is the public origin for canonical links, the sitemap and
	// robots.txt. When empty the origin comes from the request Host.
	SiteURL string
	// SiteName names the site when settings carry no title.
	SiteName      string
	DefaultLocale locale.Locale
	AnalyticsID   string
	// ShowErrorDetails renders error text and stacks on error pages.
	ShowErrorDetails bool
	Logger           *slog.Logger
	Now              func() time.Time
}

// Module provides the public site routes.
type Module struct {
	cfg Config
}

// New returns a site module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "site" }

// Healthy reports whether a content service is wired.
func (m Module) Healthy() bool { return m.cfg.Content != nil }

// Mount wires sitemap, robots and the locale-prefixed pages.
func (m Module) Mount() (module.Mount, error) {
	h := newHandlers(m.cfg)
	if h.cfg.SiteURL == "" {
		h.cfg.Logger.Warn("site url not configured, origin will follow the request host")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}

func newHandlers(cfg Config) handlers {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Content == nil {
		cfg.Content = unavailableContent{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.DefaultLocale.Valid() {
		cfg.DefaultLocale = locale.Default
	}
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	return handlers{cfg: cfg}
}
