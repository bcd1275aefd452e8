// Package web parses site command flags and launches the site server.
package web

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	entrypoint "github.com/madrasahweb/site/internal/platform/cmd"
	"github.com/madrasahweb/site/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr         string        `env:"WEB_HTTP_ADDR" envDefault:":8080"`
	Env              string        `env:"WEB_ENV" envDefault:"production"`
	SiteURL          string        `env:"WEB_SITE_URL"`
	SiteName         string        `env:"WEB_SITE_NAME"`
	DefaultLocale    string        `env:"WEB_DEFAULT_LOCALE" envDefault:"english"`
	AnalyticsID      string        `env:"WEB_ANALYTICS_ID"`
	PreviewSecret    string        `env:"WEB_PREVIEW_SECRET"`
	RevalidateSecret string        `env:"WEB_REVALIDATE_SECRET"`
	CacheBackend     string        `env:"WEB_CACHE_BACKEND" envDefault:"sqlite"`
	CachePath        string        `env:"WEB_CACHE_PATH" envDefault:"data/cache.db"`
	CacheRedisAddr   string        `env:"WEB_CACHE_REDIS_ADDR" envDefault:"localhost:6379"`
	CacheTTL         time.Duration `env:"WEB_CACHE_TTL" envDefault:"60s"`
	Workers          int           `env:"WEB_WORKERS"`
	CMSBackend       string        `env:"CMS_BACKEND" envDefault:"sanity"`
	CMSProjectID     string        `env:"CMS_PROJECT_ID"`
	CMSDataset       string        `env:"CMS_DATASET" envDefault:"production"`
	CMSAPIVersion    string        `env:"CMS_API_VERSION"`
	CMSToken         string        `env:"CMS_TOKEN"`
	CMSUseCDN        bool          `env:"CMS_USE_CDN" envDefault:"true"`
	CMSTimeout       time.Duration `env:"CMS_TIMEOUT" envDefault:"10s"`
	CMSSQLitePath    string        `env:"CMS_SQLITE_PATH" envDefault:"data/content.db"`
	CMSImageBaseURL  string        `env:"CMS_IMAGE_BASE_URL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Runtime environment (development or production)")
	fs.StringVar(&cfg.SiteURL, "site-url", cfg.SiteURL, "Public site origin used for canonical links")
	fs.StringVar(&cfg.DefaultLocale, "default-locale", cfg.DefaultLocale, "Locale used when negotiation fails")
	fs.StringVar(&cfg.CacheBackend, "cache-backend", cfg.CacheBackend, "Content cache backend (sqlite, redis or none)")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "SQLite cache database path")
	fs.StringVar(&cfg.CacheRedisAddr, "cache-redis-addr", cfg.CacheRedisAddr, "Redis cache address")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Published content cache lifetime")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Page-data worker pool size (0 uses the default)")
	fs.StringVar(&cfg.CMSBackend, "cms-backend", cfg.CMSBackend, "Content source (sanity or sqlite)")
	fs.StringVar(&cfg.CMSProjectID, "cms-project-id", cfg.CMSProjectID, "CMS project id")
	fs.StringVar(&cfg.CMSDataset, "cms-dataset", cfg.CMSDataset, "CMS dataset")
	fs.StringVar(&cfg.CMSSQLitePath, "cms-sqlite-path", cfg.CMSSQLitePath, "SQLite content database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the site server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:         cfg.HTTPAddr,
			Env:              cfg.Env,
			SiteURL:          cfg.SiteURL,
			SiteName:         cfg.SiteName,
			DefaultLocale:    cfg.DefaultLocale,
			AnalyticsID:      cfg.AnalyticsID,
			PreviewSecret:    cfg.PreviewSecret,
			RevalidateSecret: cfg.RevalidateSecret,
			CacheBackend:     cfg.CacheBackend,
			CachePath:        cfg.CachePath,
			CacheRedisAddr:   cfg.CacheRedisAddr,
			CacheTTL:         cfg.CacheTTL,
			Workers:          cfg.Workers,
			CMSBackend:       cfg.CMSBackend,
			CMSProjectID:     cfg.CMSProjectID,
			CMSDataset:       cfg.CMSDataset,
			CMSAPIVersion:    cfg.CMSAPIVersion,
			CMSToken:         cfg.CMSToken,
			CMSUseCDN:        cfg.CMSUseCDN,
			CMSTimeout:       cfg.CMSTimeout,
			CMSSQLitePath:    cfg.CMSSQLitePath,
			CMSImageBaseURL:  cfg.CMSImageBaseURL,
			Logger:           slog.Default(),
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
