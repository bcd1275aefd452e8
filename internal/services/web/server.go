package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/madrasahweb/site/internal/platform/logging"
	"github.com/madrasahweb/site/internal/services/web/app"
	"github.com/madrasahweb/site/internal/services/web/pagedata"
)

// Environment names recognised by Config.Env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Content source backends.
const (
	CMSBackendSanity = "sanity"
	CMSBackendSQLite = "sqlite"
)

// Cache store backends.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Config defines the inputs for the site server.
type Config struct {
	HTTPAddr string
	// Env selects development behavior such as detailed error pages.
	Env              string
	SiteURL          string
	SiteName         string
	DefaultLocale    string
	AnalyticsID      string
	PreviewSecret    string
	RevalidateSecret string

	CacheBackend   string
	CachePath      string
	CacheRedisAddr string
	CacheTTL       time.Duration
	// Workers sizes the page-data pool; zero uses the pool default.
	Workers int

	CMSBackend      string
	CMSProjectID    string
	CMSDataset      string
	CMSAPIVersion   string
	CMSToken        string
	CMSUseCDN       bool
	CMSTimeout      time.Duration
	CMSSQLitePath   string
	CMSImageBaseURL string

	Logger *slog.Logger
}

// Server hosts the site HTTP server and owns its backing resources.
type Server struct {
	handler    http.Handler
	httpServer *app.Server
	loader     *pagedata.Loader
	closers    []func() error
	// purge drops expired cache rows for stores without native expiry.
	purge  func(context.Context, time.Time) (int, error)
	logger *slog.Logger
}

// purgeInterval spaces expired-entry sweeps of the sqlite cache.
const purgeInterval = 10 * time.Minute

// NewServer opens the configured content source and cache and composes the
// site handler.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	return newServerWithContext(ctx, cfg)
}

// Handler returns the composed root handler.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if s.purge != nil {
		go s.purgeExpired(ctx)
	}
	return s.httpServer.ListenAndServe(ctx)
}

func (s *Server) purgeExpired(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := s.purge(ctx, now)
			if err != nil {
				s.logger.WarnContext(ctx, "purge expired cache entries", logging.Err(err))
				continue
			}
			if removed > 0 {
				s.logger.DebugContext(ctx, "purged expired cache entries", "removed", removed)
			}
		}
	}
}

// Close releases the worker pool, cache and content stores.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.loader.Release()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("close server resource", logging.Err(err))
		}
	}
	s.closers = nil
}
