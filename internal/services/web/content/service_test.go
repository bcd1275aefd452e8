package content

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/madrasahweb/site/internal/services/web/locale"
	apperrors "github.com/madrasahweb/site/internal/services/web/platform/errors"
	"github.com/madrasahweb/site/internal/services/web/preview"
)

type fakeSource struct {
	calls        []Query
	perspectives []Perspective
	response     string
	err          error
}

func (f *fakeSource) Fetch(_ context.Context, q Query, p Perspective) (json.RawMessage, error) {
	f.calls = append(f.calls, q)
	f.perspectives = append(f.perspectives, p)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

func TestGetSiteSettingsDecodesDocument(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: `{"_id":"siteSettings","_type":"siteSettings","title":{"bengali":"দারুল ইলম","english":"Darul Ilm"}}`}
	settings, err := NewService(src).GetSiteSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSiteSettings() error = %v", err)
	}
	if settings == nil || settings.Title.English != "Darul Ilm" {
		t.Fatalf("settings = %+v", settings)
	}
	if len(src.calls) != 1 || !src.calls[0].Single || src.calls[0].Type != TypeSiteSettings {
		t.Fatalf("calls = %+v", src.calls)
	}
}

func TestMissingDocumentsResolveToNil(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: "null"}
	svc := NewService(src)
	page, err := svc.GetPageBySlug(context.Background(), "about")
	if err != nil || page != nil {
		t.Fatalf("GetPageBySlug() = %+v, %v", page, err)
	}
	programs, err := svc.GetAllAcademicPrograms(context.Background())
	if err != nil || programs == nil || len(programs) != 0 {
		t.Fatalf("GetAllAcademicPrograms() = %#v, %v", programs, err)
	}
}

func TestBlankInputsShortCircuit(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: "[]"}
	svc := NewService(src)
	ctx := context.Background()
	if doc, err := svc.GetPageBySlug(ctx, " "); doc != nil || err != nil {
		t.Fatalf("GetPageBySlug(blank) = %v, %v", doc, err)
	}
	if doc, err := svc.GetNewsEventBySlug(ctx, "", locale.English); doc != nil || err != nil {
		t.Fatalf("GetNewsEventBySlug(blank) = %v, %v", doc, err)
	}
	if doc, err := svc.GetAcademicProgramBySlug(ctx, "", locale.Bengali); doc != nil || err != nil {
		t.Fatalf("GetAcademicProgramBySlug(blank) = %v, %v", doc, err)
	}
	if docs, err := svc.SearchNewsEvents(ctx, "  ", locale.English); len(docs) != 0 || err != nil {
		t.Fatalf("SearchNewsEvents(blank) = %v, %v", docs, err)
	}
	if docs, err := svc.GetNewsEventsByCategory(ctx, "sports"); len(docs) != 0 || err != nil {
		t.Fatalf("GetNewsEventsByCategory(unknown) = %v, %v", docs, err)
	}
	if len(src.calls) != 0 {
		t.Fatalf("expected no source calls, got %d", len(src.calls))
	}
}

func TestSourceFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	_, err := NewService(&fakeSource{err: cause}).GetAllFacilities(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("error chain lost cause: %v", err)
	}
	if !apperrors.Is(err, apperrors.KindUnavailable) {
		t.Fatalf("kind = %q, want unavailable", apperrors.KindOf(err))
	}
	if got := apperrors.LocalizationKey(err); got != UnavailableKey {
		t.Fatalf("LocalizationKey() = %q, want %q", got, UnavailableKey)
	}
}

func TestMalformedResponseIsUnavailable(t *testing.T) {
	t.Parallel()

	_, err := NewService(&fakeSource{response: `{"not":"a list"}`}).GetAllStaff(context.Background())
	if !apperrors.Is(err, apperrors.KindUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if got := apperrors.LocalizationKey(err); got != UnavailableKey {
		t.Fatalf("LocalizationKey() = %q, want %q", got, UnavailableKey)
	}
}

func TestNilSourceIsUnavailable(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil).GetAllStaff(context.Background())
	if !apperrors.Is(err, apperrors.KindUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if got := apperrors.LocalizationKey(err); got != UnavailableKey {
		t.Fatalf("LocalizationKey() = %q, want %q", got, UnavailableKey)
	}
}

func TestPreviewSelectsDraftPerspective(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: "[]"}
	svc := NewService(src)
	if _, err := svc.GetAllFacilities(context.Background()); err != nil {
		t.Fatalf("published read: %v", err)
	}
	if _, err := svc.GetAllFacilities(preview.WithEnabled(context.Background())); err != nil {
		t.Fatalf("preview read: %v", err)
	}
	if src.perspectives[0] != PerspectivePublished || src.perspectives[1] != PerspectivePreviewDrafts {
		t.Fatalf("perspectives = %v", src.perspectives)
	}
}

func TestNonPositiveLimitIsUncapped(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: `[{"_id":"a"},{"_id":"b"},{"_id":"c"}]`}
	svc := NewService(src)
	ctx := context.Background()

	for _, limit := range []int{0, -2} {
		items, err := svc.GetFeaturedNewsEvents(ctx, limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 3 {
			t.Fatalf("limit %d returned %d items", limit, len(items))
		}
		if _, err := svc.GetUpcomingEvents(ctx, time.Now(), limit); err != nil {
			t.Fatal(err)
		}
	}
	for i, q := range src.calls {
		if q.Limit != 0 {
			t.Fatalf("call %d Limit = %d, want 0", i, q.Limit)
		}
		if err := q.Validate(); err != nil {
			t.Fatalf("call %d invalid: %v", i, err)
		}
	}
}

func TestQueriesCarryExpectedShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{response: "[]"}
	svc := NewService(src)
	ctx := context.Background()

	if _, err := svc.GetFeaturedNewsEvents(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetUpcomingEvents(ctx, now, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SearchNewsEvents(ctx, "eid", locale.Bengali); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetLeadershipTeam(ctx); err != nil {
		t.Fatal(err)
	}

	featured := src.calls[0]
	if featured.Limit != 3 || !reflect.DeepEqual(featured.Filters[0], Eq("featured", true)) || !featured.Order[0].Desc {
		t.Fatalf("featured query = %+v", featured)
	}
	upcoming := src.calls[1]
	if upcoming.Limit != 5 || !reflect.DeepEqual(upcoming.Filters[1], Gte("eventDate", "2025-03-01T08:00:00Z")) || upcoming.Order[0] != Asc("eventDate") {
		t.Fatalf("upcoming query = %+v", upcoming)
	}
	search := src.calls[2]
	if search.Filters[0].Op != OpAny || !reflect.DeepEqual(search.Filters[0].Any, []Filter{Match("title.bengali", "eid"), Match("excerpt.bengali", "eid")}) {
		t.Fatalf("search query = %+v", search)
	}
	leadership := src.calls[3]
	if leadership.Type != TypeStaffMember || !reflect.DeepEqual(leadership.Filters[0], Eq("isLeadership", true)) {
		t.Fatalf("leadership query = %+v", leadership)
	}
}

func TestGetNewsEventBySlugUsesLanguageField(t *testing.T) {
	t.Parallel()

	src := &fakeSource{response: `{"_id":"n1","_type":"newsEvent","category":"event"}`}
	doc, err := NewService(src).GetNewsEventBySlug(context.Background(), "eid-fair", locale.Bengali)
	if err != nil || doc == nil || doc.Category != CategoryEvent {
		t.Fatalf("GetNewsEventBySlug() = %+v, %v", doc, err)
	}
	if got := src.calls[0].Filters[0]; !reflect.DeepEqual(got, Eq("slug.bengali.current", "eid-fair")) {
		t.Fatalf("filter = %+v", got)
	}
}
