package content

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/services/web/locale"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
	"github.com/madrasahweb/site/internal/services/web/preview"
)

// Service issues the site's content reads. Each operation performs exactly
// one Source read, using the draft perspective for preview requests.
//
// Missing documents yield nil or an empty slice with a nil error. Source
// failures are returned as apperrors.KindUnavailable keyed to
// UnavailableKey.
type Service struct {
	source Source
}

// NewService builds a Service over source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// PerspectiveFor returns the read perspective for ctx.
func PerspectiveFor(ctx context.Context) Perspective {
	if preview.Enabled(ctx) {
		return PerspectivePreviewDrafts
	}
	return PerspectivePublished
}

// GetSiteSettings returns the singleton settings document.
func (s *Service) GetSiteSettings(ctx context.Context) (*SiteSettings, error) {
	return fetchOne[SiteSettings](ctx, s, Query{Type: TypeSiteSettings, Single: true})
}

// GetPageBySlug returns the page whose English or Bengali slug is slug.
func (s *Service) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return fetchOne[Page](ctx, s, Query{
		Type:    TypePage,
		Filters: []Filter{AnyOf(Eq("slug.english.current", slug), Eq("slug.bengali.current", slug))},
		Single:  true,
	})
}

// GetAllNewsEvents returns every news item, newest first.
func (s *Service) GetAllNewsEvents(ctx context.Context) ([]NewsEvent, error) {
	return fetchMany[NewsEvent](ctx, s, Query{
		Type:  TypeNewsEvent,
		Order: []Order{Desc("publishedAt")},
	})
}

// GetFeaturedNewsEvents returns up to limit featured items, newest first.
// A limit of zero or less returns every featured item.
func (s *Service) GetFeaturedNewsEvents(ctx context.Context, limit int) ([]NewsEvent, error) {
	if limit < 0 {
		limit = 0
	}
	return fetchMany[NewsEvent](ctx, s, Query{
		Type:    TypeNewsEvent,
		Filters: []Filter{Eq("featured", true)},
		Order:   []Order{Desc("publishedAt")},
		Limit:   limit,
	})
}

// GetNewsEventBySlug returns the item whose slug in language l is slug.
func (s *Service) GetNewsEventBySlug(ctx context.Context, slug string, l locale.Locale) (*NewsEvent, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return fetchOne[NewsEvent](ctx, s, Query{
		Type:    TypeNewsEvent,
		Filters: []Filter{Eq(slugField(l), slug)},
		Single:  true,
	})
}

// GetNewsEventsByCategory returns items in category, newest first.
func (s *Service) GetNewsEventsByCategory(ctx context.Context, category Category) ([]NewsEvent, error) {
	if _, ok := ParseCategory(string(category)); !ok {
		return nil, nil
	}
	return fetchMany[NewsEvent](ctx, s, Query{
		Type:    TypeNewsEvent,
		Filters: []Filter{Eq("category", string(category))},
		Order:   []Order{Desc("publishedAt")},
	})
}

// GetUpcomingEvents returns up to limit events dated at or after now,
// soonest first. A limit of zero or less returns every upcoming event.
func (s *Service) GetUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]NewsEvent, error) {
	if limit < 0 {
		limit = 0
	}
	return fetchMany[NewsEvent](ctx, s, Query{
		Type: TypeNewsEvent,
		Filters: []Filter{
			Eq("category", string(CategoryEvent)),
			Gte("eventDate", string(NewDateTime(now))),
		},
		Order: []Order{Asc("eventDate")},
		Limit: limit,
	})
}

// SearchNewsEvents returns items whose title or excerpt in language l
// contains term, newest first.
func (s *Service) SearchNewsEvents(ctx context.Context, term string, l locale.Locale) ([]NewsEvent, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	lang := locale.Resolve(l.String()).String()
	return fetchMany[NewsEvent](ctx, s, Query{
		Type:    TypeNewsEvent,
		Filters: []Filter{AnyOf(Match("title."+lang, term), Match("excerpt."+lang, term))},
		Order:   []Order{Desc("publishedAt")},
	})
}

// GetAllAcademicPrograms returns every program in editor order.
func (s *Service) GetAllAcademicPrograms(ctx context.Context) ([]AcademicProgram, error) {
	return fetchMany[AcademicProgram](ctx, s, Query{
		Type:  TypeAcademicProgram,
		Order: []Order{Asc("order")},
	})
}

// GetAcademicProgramBySlug returns the program whose slug in language l is
// slug.
func (s *Service) GetAcademicProgramBySlug(ctx context.Context, slug string, l locale.Locale) (*AcademicProgram, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return fetchOne[AcademicProgram](ctx, s, Query{
		Type:    TypeAcademicProgram,
		Filters: []Filter{Eq(slugField(l), slug)},
		Single:  true,
	})
}

// GetLeadershipTeam returns leadership staff in editor order.
func (s *Service) GetLeadershipTeam(ctx context.Context) ([]StaffMember, error) {
	return fetchMany[StaffMember](ctx, s, Query{
		Type:    TypeStaffMember,
		Filters: []Filter{Eq("isLeadership", true)},
		Order:   []Order{Asc("order")},
	})
}

// GetAllStaff returns every staff member in editor order.
func (s *Service) GetAllStaff(ctx context.Context) ([]StaffMember, error) {
	return fetchMany[StaffMember](ctx, s, Query{
		Type:  TypeStaffMember,
		Order: []Order{Asc("order")},
	})
}

// GetAllFacilities returns every facility in editor order.
func (s *Service) GetAllFacilities(ctx context.Context) ([]Facility, error) {
	return fetchMany[Facility](ctx, s, Query{
		Type:  TypeFacility,
		Order: []Order{Asc("order")},
	})
}

// GetFeaturedFacilities returns featured facilities in editor order.
func (s *Service) GetFeaturedFacilities(ctx context.Context) ([]Facility, error) {
	return fetchMany[Facility](ctx, s, Query{
		Type:    TypeFacility,
		Filters: []Filter{Eq("featured", true)},
		Order:   []Order{Asc("order")},
	})
}

// UnavailableKey is the catalog key for the public unavailable message.
const UnavailableKey = "error.content_unavailable"

func slugField(l locale.Locale) string {
	return "slug." + locale.Resolve(l.String()).String() + ".current"
}

func (s *Service) fetch(ctx context.Context, q Query) (json.RawMessage, error) {
	if s == nil || s.source == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, UnavailableKey, "content source is not configured")
	}
	if err := q.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, err, "invalid %s query", q.Type)
	}
	raw, err := s.source.Fetch(ctx, q, PerspectiveFor(ctx))
	if err != nil {
		return nil, apperrors.WrapKey(apperrors.KindUnavailable, UnavailableKey, err, "fetch %s", q.Type)
	}
	return raw, nil
}

func fetchOne[T any](ctx context.Context, s *Service, q Query) (*T, error) {
	q.Single = true
	raw, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return nil, nil
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.WrapKey(apperrors.KindUnavailable, UnavailableKey, err, "decode %s", q.Type)
	}
	return &doc, nil
}

func fetchMany[T any](ctx context.Context, s *Service, q Query) ([]T, error) {
	raw, err := s.fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if isNull(raw) {
		return []T{}, nil
	}
	docs := []T{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, apperrors.WrapKey(apperrors.KindUnavailable, UnavailableKey, err, "decode %s list", q.Type)
	}
	return docs, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
