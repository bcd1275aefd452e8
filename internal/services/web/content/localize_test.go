package content

import (
	"testing"

	"github.com/madrasahweb/site/internal/services/web/locale"
)

func TestLocalizedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text MultilingualText
		lang locale.Locale
		want string
	}{
		{name: "english present", text: MultilingualText{Bengali: "বাংলা", English: "English"}, lang: locale.English, want: "English"},
		{name: "bengali present", text: MultilingualText{Bengali: "বাংলা", English: "English"}, lang: locale.Bengali, want: "বাংলা"},
		{name: "english falls back to bengali", text: MultilingualText{Bengali: "X"}, lang: locale.English, want: "X"},
		{name: "bengali falls back to english", text: MultilingualText{English: "Y"}, lang: locale.Bengali, want: "Y"},
		{name: "whitespace counts as empty", text: MultilingualText{Bengali: "  ", English: "Y"}, lang: locale.Bengali, want: "Y"},
		{name: "both empty english", text: MultilingualText{}, lang: locale.English, want: ""},
		{name: "both empty bengali", text: MultilingualText{}, lang: locale.Bengali, want: ""},
		{name: "unknown locale uses default", text: MultilingualText{Bengali: "B", English: "E"}, lang: locale.Locale("french"), want: "E"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := LocalizedText(tc.text, tc.lang); got != tc.want {
				t.Fatalf("LocalizedText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocalizedTextNonEmptyWhenEitherSideSet(t *testing.T) {
	t.Parallel()

	samples := []MultilingualText{
		{Bengali: "ক"},
		{English: "a"},
		{Bengali: "ক", English: "a"},
	}
	for _, text := range samples {
		for _, l := range locale.All {
			if LocalizedText(text, l) == "" {
				t.Fatalf("LocalizedText(%+v, %s) returned empty", text, l)
			}
		}
	}
}

func TestResolveTextReportsFallback(t *testing.T) {
	t.Parallel()

	got := ResolveText(MultilingualText{Bengali: "X"}, locale.English)
	if got.Value != "X" || !got.FallbackUsed || got.Locale != locale.Bengali {
		t.Fatalf("ResolveText() = %+v", got)
	}
	got = ResolveText(MultilingualText{English: "Y"}, locale.English)
	if got.FallbackUsed || got.Locale != locale.English {
		t.Fatalf("ResolveText() = %+v", got)
	}
	if got := ResolveText(MultilingualText{}, locale.Bengali); got != (Resolution{}) {
		t.Fatalf("ResolveText(empty) = %+v", got)
	}
}

func TestLocalizedArray(t *testing.T) {
	t.Parallel()

	values := MultilingualArray{English: []string{"Quran", "Hadith"}}
	if got := LocalizedArray(values, locale.Bengali); len(got) != 2 || got[0] != "Quran" {
		t.Fatalf("LocalizedArray(bengali) = %v", got)
	}
	values.Bengali = []string{"কুরআন"}
	if got := values.In(locale.Bengali); len(got) != 1 || got[0] != "কুরআন" {
		t.Fatalf("LocalizedArray(bengali) = %v", got)
	}
	if got := LocalizedArray(MultilingualArray{}, locale.English); got != nil {
		t.Fatalf("LocalizedArray(empty) = %v", got)
	}
}

func TestLocalizedSlug(t *testing.T) {
	t.Parallel()

	slug := MultilingualSlug{English: Slug{Current: "hifz"}}
	if got := LocalizedSlug(slug, locale.Bengali); got != "hifz" {
		t.Fatalf("LocalizedSlug(bengali) = %q", got)
	}
	slug.Bengali = Slug{Current: "হিফজ"}
	if got := slug.In(locale.Bengali); got != "হিফজ" {
		t.Fatalf("LocalizedSlug(bengali) = %q", got)
	}
	if got := LocalizedSlug(MultilingualSlug{}, locale.English); got != "" {
		t.Fatalf("LocalizedSlug(empty) = %q", got)
	}
}
