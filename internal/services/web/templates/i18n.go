package templates

import (
	"github.com/madrasahweb/site/internal/services/web/locale"
	"golang.org/x/text/message"
)

// Localizer formats catalog messages for one locale. *message.Printer
// satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// LocalizerFor returns the catalog printer for l.
func LocalizerFor(l locale.Locale) Localizer {
	return locale.Printer(locale.ResolveWithDefault(string(l), locale.Default))
}

// T formats the catalog message key. A nil loc reads the default locale's
// catalog; unknown keys format as themselves.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		loc = LocalizerFor(locale.Default)
	}
	return loc.Sprintf(key, args...)
}
