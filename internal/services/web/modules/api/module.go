// Package api serves the site's machine-facing endpoints: image and icon
// redirects, the preview toggle, the revalidation webhook and health.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madrasahweb/site/internal/platform/assets/imagecdn"
	"github.com/madrasahweb/site/internal/services/web/content"
	module "github.com/madrasahweb/site/internal/services/web/module"
	"github.com/madrasahweb/site/internal/services/web/preview"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

// SettingsReader loads the site settings document used for favicons.
type SettingsReader interface {
	GetSiteSettings(ctx context.Context) (*content.SiteSettings, error)
}

// Revalidator drops cached content reads carrying any of tags.
type Revalidator interface {
	Revalidate(ctx context.Context, tags ...string) (int, error)
}

// Config carries the api module's dependencies.
type Config struct {
	Settings SettingsReader
	Images   *imagecdn.Builder
	Preview  *preview.Manager
	// Revalidator is nil when no content cache is configured.
	Revalidator      Revalidator
	RevalidateSecret string
	Logger           *slog.Logger
}

// Module provides the /api/ subtree plus icon and health routes.
type Module struct {
	cfg Config
}

// New returns an api module.
func New(cfg Config) Module {
	return Module{cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "api" }

// Mount wires api routes.
func (m Module) Mount() (module.Mount, error) {
	h := newHandlers(m.cfg)
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return module.Mount{
		Prefix:  routepath.APIPrefix,
		Routes:  []string{routepath.Favicon, routepath.Icon, routepath.AppleIcon, routepath.Health},
		Handler: mux,
	}, nil
}

func newHandlers(cfg Config) handlers {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Settings == nil {
		cfg.Settings = unavailableSettings{}
	}
	if cfg.Preview == nil {
		cfg.Preview = preview.NewManager(preview.Config{})
	}
	cfg.RevalidateSecret = strings.TrimSpace(cfg.RevalidateSecret)
	return handlers{cfg: cfg}
}
