package site

import (
	"context"
	"time"

	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
)

type unavailableContent struct{}

func errUnavailable() error {
	return apperrors.E(apperrors.KindUnavailable, "content service is not configured")
}

func (unavailableContent) GetSiteSettings(context.Context) (*content.SiteSettings, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetPageBySlug(context.Context, string) (*content.Page, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetAllNewsEvents(context.Context) ([]content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetFeaturedNewsEvents(context.Context, int) ([]content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetNewsEventBySlug(context.Context, string, locale.Locale) (*content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetNewsEventsByCategory(context.Context, content.Category) ([]content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetUpcomingEvents(context.Context, time.Time, int) ([]content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) SearchNewsEvents(context.Context, string, locale.Locale) ([]content.NewsEvent, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetAllAcademicPrograms(context.Context) ([]content.AcademicProgram, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetAcademicProgramBySlug(context.Context, string, locale.Locale) (*content.AcademicProgram, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetLeadershipTeam(context.Context) ([]content.StaffMember, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetAllStaff(context.Context) ([]content.StaffMember, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetAllFacilities(context.Context) ([]content.Facility, error) {
	return nil, errUnavailable()
}

func (unavailableContent) GetFeaturedFacilities(context.Context) ([]content.Facility, error) {
	return nil, errUnavailable()
}
