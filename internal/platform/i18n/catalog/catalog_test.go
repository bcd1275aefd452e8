package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{"en", "bn"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
}

func TestPrinterTranslatesPerLocale(t *testing.T) {
	bundle := Default()
	if got := bundle.Printer(language.English).Sprintf("site.nav.home"); got != "Home" {
		t.Fatalf("en nav.home = %q, want %q", got, "Home")
	}
	if got := bundle.Printer(language.Bengali).Sprintf("site.nav.home"); got != "প্রচ্ছদ" {
		t.Fatalf("bn nav.home = %q, want %q", got, "প্রচ্ছদ")
	}
	if got := bundle.Printer(language.English).Sprintf("site.news.results_for", "hifz"); got != "Results for “hifz”" {
		t.Fatalf("formatted message = %q", got)
	}
}

func TestEveryBaseKeyHasBengaliTranslation(t *testing.T) {
	bundle := Default()
	for key := range bundle.locales[BaseLocale] {
		if _, ok := bundle.locales["bn"][key]; !ok {
			t.Fatalf("bn catalog missing key %q", key)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en/site.yaml"), `locale: "en"
namespace: "site"
messages:
  "site.a": "A"
  "site.b": "B"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/bn/site.yaml"), `locale: "bn"
namespace: "site"
messages:
  "site.a": "ক"
`)
	bundle, err := LoadFromFS(os.DirFS(tempDir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, ok := bundle.Message("bn", "site.b"); !ok || got != "B" {
		t.Fatalf("Message(bn, site.b) = %q, %v", got, ok)
	}
	if got := bundle.Printer(language.Bengali).Sprintf("site.b"); got != "B" {
		t.Fatalf("bn printer fallback = %q, want %q", got, "B")
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en/site.yaml"), `locale: "en"
namespace: "site"
messages:
  "error.bad": "nope"
`)
	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsTranslationOnlyKeys(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en/site.yaml"), `locale: "en"
namespace: "site"
messages:
  "site.a": "A"
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/bn/site.yaml"), `locale: "bn"
namespace: "site"
messages:
  "site.extra": "অতিরিক্ত"
`)
	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/bn/site.yaml"), `locale: "bn"
namespace: "site"
messages:
  "site.a": "ক"
`)
	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en/site.yaml"), `locale: "bn"
namespace: "site"
messages:
  "site.a": "A"
`)
	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected error")
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
