package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/madrasahweb/site/internal/platform/assets/imagecdn"
	"github.com/madrasahweb/site/internal/services/web/app"
	"github.com/madrasahweb/site/internal/services/web/cms/sanity"
	cmssqlite "github.com/madrasahweb/site/internal/services/web/cms/sqlite"
	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/contentcache"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/modules"
	"github.com/madrasahweb/site/internal/services/web/modules/api"
	"github.com/madrasahweb/site/internal/services/web/modules/site"
	"github.com/madrasahweb/site/internal/services/web/pagedata"
	"github.com/madrasahweb/site/internal/services/web/preview"
	"github.com/madrasahweb/site/internal/services/web/static"
	webstorage "github.com/madrasahweb/site/internal/services/web/storage"
	redisstore "github.com/madrasahweb/site/internal/services/web/storage/redis"
	sqlitestore "github.com/madrasahweb/site/internal/services/web/storage/sqlite"
)

// newServerWithContext builds a configured site server.
func newServerWithContext(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger}

	source, err := openContentSource(ctx, cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	store, err := openCacheStore(ctx, cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	cache := contentcache.New(source, store, contentcache.WithTTL(cfg.CacheTTL), contentcache.WithLogger(logger))

	loaderOpts := []pagedata.Option{pagedata.WithLogger(logger)}
	if cfg.Workers > 0 {
		loaderOpts = append(loaderOpts, pagedata.WithSize(cfg.Workers))
	}
	s.loader, err = pagedata.New(loaderOpts...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start page-data pool: %w", err)
	}

	siteURL := strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")
	development := strings.EqualFold(strings.TrimSpace(cfg.Env), EnvDevelopment)
	images := imagecdn.New(cfg.CMSImageBaseURL, cfg.CMSProjectID, cfg.CMSDataset)
	manager := preview.NewManager(preview.Config{
		Secret: cfg.PreviewSecret,
		Secure: strings.HasPrefix(siteURL, "https://"),
	})
	service := content.NewService(cache)

	handler, err := app.BuildRootHandler(app.HandlerConfig{
		Modules: modules.Default(modules.Dependencies{
			Site: site.Config{
				Content:          service,
				Loader:           s.loader,
				Images:           images,
				SiteURL:          siteURL,
				SiteName:         cfg.SiteName,
				DefaultLocale:    locale.ResolveWithDefault(cfg.DefaultLocale, locale.Default),
				AnalyticsID:      cfg.AnalyticsID,
				ShowErrorDetails: development,
				Logger:           logger,
			},
			API: api.Config{
				Settings:         service,
				Images:           images,
				Preview:          manager,
				Revalidator:      cache,
				RevalidateSecret: cfg.RevalidateSecret,
				Logger:           logger,
			},
		}),
		StaticFS:         static.FS,
		Preview:          manager,
		ShowErrorDetails: development,
		ServiceName:      "site",
		Logger:           logger,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}
	s.handler = handler
	s.httpServer = app.NewServer(httpAddr, handler, logger)
	logger.Info("site configured",
		"cms_backend", backendName(cfg.CMSBackend, CMSBackendSanity),
		"cache_backend", backendName(cfg.CacheBackend, CacheBackendNone),
		"preview", manager.Configured(),
		"images", images.Configured(),
	)
	return s, nil
}

func openContentSource(ctx context.Context, cfg Config, s *Server) (content.Source, error) {
	switch backend := backendName(cfg.CMSBackend, CMSBackendSanity); backend {
	case CMSBackendSanity:
		client, err := sanity.New(sanity.Config{
			ProjectID:  cfg.CMSProjectID,
			Dataset:    cfg.CMSDataset,
			APIVersion: cfg.CMSAPIVersion,
			Token:      cfg.CMSToken,
			UseCDN:     cfg.CMSUseCDN,
			Timeout:    cfg.CMSTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure cms client: %w", err)
		}
		return client, nil
	case CMSBackendSQLite:
		store, err := cmssqlite.Open(ctx, cfg.CMSSQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open cms sqlite: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cms backend %q", backend)
	}
}

// openCacheStore returns nil for the "none" backend, which disables caching.
func openCacheStore(ctx context.Context, cfg Config, s *Server) (webstorage.Store, error) {
	switch backend := backendName(cfg.CacheBackend, CacheBackendNone); backend {
	case CacheBackendNone:
		return nil, nil
	case CacheBackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("open cache sqlite: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		s.purge = store.PurgeExpired
		return store, nil
	case CacheBackendRedis:
		store, err := redisstore.Open(ctx, redisstore.Options{Addr: cfg.CacheRedisAddr})
		if err != nil {
			return nil, fmt.Errorf("open cache redis: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

func backendName(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
