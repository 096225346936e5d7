package datetime

import (
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// CardLayout is the day/month/year layout shown on article cards.
const CardLayout = "02/01/2006"

type Formatter struct {
	layout string
}

func NewFormatter() *Formatter {
	return &Formatter{layout: CardLayout}
}

var providerDateFormats = []string{
	time.RFC3339,     // "2006-01-02T15:04:05Z07:00"
	time.RFC3339Nano, // "2006-01-02T15:04:05.999999999Z07:00"
	time.RFC1123Z,    // "Mon, 02 Jan 2006 15:04:05 -0700"
	time.RFC1123,     // "Mon, 02 Jan 2006 15:04:05 MST"
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2006-01-02",
}

// Parse reads a provider date string. Known layouts are tried first, then a
// permissive parser. ok is false for empty or unparseable input.
func (f *Formatter) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range providerDateFormats {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}

	if parsed, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return parsed.UTC(), true
	}

	slog.Debug("could not parse provider date", slog.String("value", raw))
	return time.Time{}, false
}

// FormatForCard renders raw as a calendar date, or "" when it cannot be parsed.
func (f *Formatter) FormatForCard(raw string) string {
	t, ok := f.Parse(raw)
	if !ok {
		return ""
	}
	return t.Format(f.layout)
}

// Normalize rewrites raw as RFC 3339 when it parses, and returns it unchanged otherwise.
func (f *Formatter) Normalize(raw string) string {
	t, ok := f.Parse(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(time.RFC3339)
}
