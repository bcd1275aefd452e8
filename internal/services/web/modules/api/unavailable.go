package api

import (
	"context"

	"github.com/madrasahweb/site/internal/services/web/content"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
)

type unavailableSettings struct{}

func (unavailableSettings) GetSiteSettings(context.Context) (*content.SiteSettings, error) {
	return nil, apperrors.E(apperrors.KindUnavailable, "content service is not configured")
}
