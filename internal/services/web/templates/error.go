package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/madrasahweb/site/internal/services/web/locale"
	"github.com/madrasahweb/site/internal/services/web/routepath"
)

const (
	errorTitleNotFoundKey    = "error.not_found_title"
	errorTitleServerErrKey   = "error.server_title"
	errorMessageNotFoundKey  = "error.not_found_message"
	errorMessageServerErrKey = "error.server_message"
	errorBackHomeKey         = "error.back_home"
	errorDetailsKey          = "error.details"
	errorRequestIDKey        = "error.request_id"
)

// ErrorDetails is diagnostic output shown only in development.
type ErrorDetails struct {
	Message   string
	Stack     string
	RequestID string
}

// ErrorPageTitle returns the browser page title for error pages.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorTitleNotFoundKey)
	}
	return T(loc, errorTitleServerErrKey)
}

func errorMessage(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorMessageNotFoundKey)
	}
	return T(loc, errorMessageServerErrKey)
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ErrorPage renders the not-found or generic error state. A non-empty
// message replaces the default body text. details may be nil.
func ErrorPage(statusCode int, l locale.Locale, loc Localizer, message string, details *ErrorDetails) templ.Component {
	if message == "" {
		message = errorMessage(statusCode, loc)
	}
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="error-state" id="error-state"`)
		h.attr("data-status", itoaStatus(normalizeErrorStatus(statusCode)))
		h.raw(">")
		h.element("h1", "", ErrorPageTitle(statusCode, loc))
		h.element("p", "", message)
		h.link(routepath.Localized(l, routepath.Home), "button", T(loc, errorBackHomeKey))
		if details != nil {
			h.raw(`<details class="error-details" open>`)
			h.element("summary", "", T(loc, errorDetailsKey))
			if details.RequestID != "" {
				h.element("p", "", T(loc, errorRequestIDKey, details.RequestID))
			}
			h.element("pre", "error-message", details.Message)
			if details.Stack != "" {
				h.element("pre", "error-stack", details.Stack)
			}
			h.raw("</details>")
		}
		h.raw("</section>")
	})
}

func itoaStatus(statusCode int) string {
	if statusCode == http.StatusNotFound {
		return "404"
	}
	return "500"
}
