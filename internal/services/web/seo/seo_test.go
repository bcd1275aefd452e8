package seo

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/madrasahweb/site/internal/services/web/locale"
)

func TestPageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct{ page, site, want string }{
		{page: "About", site: "Darul Ilm Academy", want: "About | Darul Ilm Academy"},
		{page: "", site: "Darul Ilm Academy", want: "Darul Ilm Academy"},
		{page: "About", site: "", want: "About"},
		{page: "Darul Ilm Academy", site: "Darul Ilm Academy", want: "Darul Ilm Academy"},
	}
	for _, tc := range tests {
		if got := PageTitle(tc.page, tc.site); got != tc.want {
			t.Fatalf("PageTitle(%q, %q) = %q, want %q", tc.page, tc.site, got, tc.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"<p>Welcome to <strong>our</strong> campus.</p><p>Since 1990.</p>": "Welcome to our campus. Since 1990.",
		"Tom &amp; Jerry":                        "Tom & Jerry",
		"<style>p{color:red}</style><p>Text</p>": "Text",
		"  plain\n text  ":                       "plain text",
		"<script>alert(1)</script>":              "",
	}
	for in, want := range tests {
		if got := PlainText(in); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateAtWordBoundary(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("word ", 50)
	got := Truncate(text, DescriptionLimit)
	if utf8.RuneCountInString(got) > DescriptionLimit {
		t.Fatalf("len = %d, want <= %d", utf8.RuneCountInString(got), DescriptionLimit)
	}
	if !strings.HasSuffix(got, "word…") {
		t.Fatalf("Truncate() = %q, want whole words plus ellipsis", got)
	}
	if got := Truncate("short", 160); got != "short" {
		t.Fatalf("Truncate(short) = %q", got)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	t.Parallel()

	bengali := strings.Repeat("শিক্ষা ", 40)
	got := Truncate(bengali, 50)
	if utf8.RuneCountInString(got) > 50 {
		t.Fatalf("rune count = %d", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
}

func TestDescriptionPicksFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := Description("", "<p> </p>", "<p>Hello</p>"); got != "Hello" {
		t.Fatalf("Description() = %q", got)
	}
	if got := Description(); got != "" {
		t.Fatalf("Description() = %q", got)
	}
}

func TestAlternates(t *testing.T) {
	t.Parallel()

	got := Alternates("https://example.org/", map[locale.Locale]string{
		locale.Bengali: "/news/ঈদ",
		locale.English: "/news/eid",
	}, locale.English)
	want := map[string]string{
		"bn":        "https://example.org/bengali/news/ঈদ",
		"en":        "https://example.org/english/news/eid",
		"x-default": "https://example.org/english/news/eid",
	}
	if len(got) != len(want) {
		t.Fatalf("Alternates() = %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Alternates()[%s] = %q, want %q", k, got[k], v)
		}
	}
	if got := URLFor("https://example.org", locale.Bengali, ""); got != "https://example.org/bengali/" {
		t.Fatalf("URLFor(root) = %q", got)
	}
}

func TestWriteSitemapListsBothLocales(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteSitemap(&buf, "https://example.org", locale.English, []SitemapEntry{
		{Paths: SamePath("/"), Priority: 1},
		{Paths: map[locale.Locale]string{locale.Bengali: "/programs/hifz-bn", locale.English: "/programs/hifz"}, LastModified: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("WriteSitemap() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		`<loc>https://example.org/bengali/</loc>`,
		`<loc>https://example.org/english/</loc>`,
		`<loc>https://example.org/bengali/programs/hifz-bn</loc>`,
		`<loc>https://example.org/english/programs/hifz</loc>`,
		`hreflang="x-default" href="https://example.org/english/programs/hifz"`,
		`<lastmod>2025-03-01</lastmod>`,
		`<priority>1.0</priority>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("sitemap missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "<url>"); got != 4 {
		t.Fatalf("url count = %d, want 4", got)
	}
}

func TestRobots(t *testing.T) {
	t.Parallel()

	got := Robots("https://example.org/")
	for _, want := range []string{"User-agent: *", "Disallow: /api/", "Sitemap: https://example.org/sitemap.xml"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Robots() missing %q:\n%s", want, got)
		}
	}
}
