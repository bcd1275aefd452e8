package templates

import (
	"strconv"
	"strings"
	"time"

	"github.com/madrasahweb/site/internal/services/web/content"
	"github.com/madrasahweb/site/internal/services/web/locale"
)

var bengaliMonths = [...]string{
	"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

var bengaliDigits = strings.NewReplacer(
	"0", "০", "1", "১", "2", "২", "3", "৩", "4", "৪",
	"5", "৫", "6", "৬", "7", "৭", "8", "৮", "9", "৯",
)

// FormatDate renders a calendar date for l. Bengali dates use Bengali
// digits and month names.
func FormatDate(l locale.Locale, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if l == locale.Bengali {
		return LocalizeDigits(l, strconv.Itoa(t.Day())) + " " + bengaliMonths[t.Month()-1] + " " + LocalizeDigits(l, strconv.Itoa(t.Year()))
	}
	return t.Format("2 January 2006")
}

// FormatDateTime renders a content timestamp, or "" when it does not parse.
func FormatDateTime(l locale.Locale, value content.DateTime) string {
	t, ok := value.Time()
	if !ok {
		return ""
	}
	return FormatDate(l, t)
}

// LocalizeDigits swaps ASCII digits for Bengali ones when l is Bengali.
func LocalizeDigits(l locale.Locale, s string) string {
	if l != locale.Bengali {
		return s
	}
	return bengaliDigits.Replace(s)
}
