// Package weberror renders shared error responses for web modules.
package weberror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/madrasahweb/site/internal/services/web/locale"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
	"github.com/madrasahweb/site/internal/services/web/platform/httpx"
	"github.com/madrasahweb/site/internal/services/web/platform/pagerender"
	"github.com/madrasahweb/site/internal/services/web/seo"
	webtemplates "github.com/madrasahweb/site/internal/services/web/templates"
)

// ShouldRenderErrorPage reports whether status should use the error page.
func ShouldRenderErrorPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if localized := keyedMessage(loc, err); localized != "" {
		return localized
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// keyedMessage returns the catalog text for err's localization key, or ""
// when err has no key or the catalog lacks it.
func keyedMessage(loc webtemplates.Localizer, err error) string {
	key := apperrors.LocalizationKey(err)
	if loc == nil || key == "" {
		return ""
	}
	localized := strings.TrimSpace(loc.Sprintf(key))
	if localized == key {
		return ""
	}
	return localized
}

// Renderer writes localized error pages.
type Renderer struct {
	// ShowDetails adds the error text and panic stack to the page.
	ShowDetails bool
}

// WriteErrorPage writes the not-found or generic error page around chrome.
// err may be nil for plain not-found responses.
func (rd Renderer) WriteErrorPage(w http.ResponseWriter, r *http.Request, statusCode int, err error, chrome webtemplates.Chrome) {
	if w == nil {
		return
	}
	if !ShouldRenderErrorPage(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	if !chrome.Locale.Valid() {
		chrome.Locale = locale.FromContext(httpx.RequestContext(r))
	}
	chrome.Meta = seo.Metadata{
		Title:    seo.PageTitle(webtemplates.ErrorPageTitle(statusCode, chrome.Loc), webtemplates.SiteName(chrome)),
		Locale:   chrome.Locale,
		SiteName: webtemplates.SiteName(chrome),
		NoIndex:  true,
	}

	var details *webtemplates.ErrorDetails
	if rd.ShowDetails && err != nil {
		details = &webtemplates.ErrorDetails{
			Message:   err.Error(),
			RequestID: httpx.RequestIDFromContext(httpx.RequestContext(r)),
		}
		var panicErr *httpx.PanicError
		if errors.As(err, &panicErr) {
			details.Stack = string(panicErr.Stack)
		}
	}

	renderErr := pagerender.WritePage(w, r, pagerender.Page{
		Chrome:     chrome,
		StatusCode: statusCode,
		Body:       webtemplates.ErrorPage(statusCode, chrome.Locale, chrome.Loc, keyedMessage(chrome.Loc, err), details),
	})
	if renderErr != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteError maps err to a status and writes either the error page or a
// plain-text message that never leaks internal error text.
func (rd Renderer) WriteError(w http.ResponseWriter, r *http.Request, err error, chrome webtemplates.Chrome) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderErrorPage(statusCode) {
		rd.WriteErrorPage(w, r, statusCode, err, chrome)
		return
	}
	http.Error(w, PublicMessage(chrome.Loc, err), statusCode)
}
