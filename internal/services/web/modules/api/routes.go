package api

import (
	"net/http"

	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(http.MethodGet+" "+routepath.Favicon, h.handleIcon(faviconSize))
	mux.HandleFunc(http.MethodGet+" "+routepath.Icon, h.handleIcon(iconSize))
	mux.HandleFunc(http.MethodGet+" "+routepath.AppleIcon, h.handleIcon(appleIconSize))
	mux.HandleFunc(http.MethodGet+" "+routepath.APIImagePattern, h.handleImage)
	getOnly := httpx.RequireMethod(http.MethodGet)
	mux.Handle(routepath.DraftEnable, getOnly(h.cfg.Preview.EnableHandler()))
	mux.Handle(routepath.DraftDisable, getOnly(h.cfg.Preview.DisableHandler()))
	mux.Handle(routepath.Revalidate, httpx.RequireMethod(http.MethodPost)(http.HandlerFunc(h.handleRevalidate)))
	mux.HandleFunc(routepath.APIPrefix, h.handleNotFound)
}
