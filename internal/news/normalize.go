package news

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"news-reader/internal/domain"
	"news-reader/pkg/datetime"
)

var dates = datetime.NewFormatter()

// finalize assigns fallback ids and display defaults and keeps the first
// record of any repeated id. A record with no id and nothing to derive one
// from is skipped.
func finalize(provider string, articles []domain.Article) []domain.Article {
	seen := make(map[string]bool, len(articles))
	out := make([]domain.Article, 0, len(articles))

	for _, a := range articles {
		a.Title = strings.TrimSpace(a.Title)
		if a.ID == "" {
			a.ID = contentID(a.Link, a.Title, a.Summary, a.PublishedAt)
		}
		a.PublishedAt = dates.Normalize(a.PublishedAt)
		a.ApplyFallbacks()

		if err := a.Validate(); err != nil {
			slog.Debug("skipping provider record", slog.String("provider", provider), slog.Any("error", err))
			continue
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

// contentID derives a stable id for records the provider left unidentified.
func contentID(fields ...string) string {
	if strings.Join(fields, "") == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x00")))
	return "h" + hex.EncodeToString(sum[:8])
}

// firstString returns the first non-empty string among paths of r.
func firstString(r gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := strings.TrimSpace(r.Get(path).String()); v != "" {
			return v
		}
	}
	return ""
}

// authorOf accepts a plain string, an array of strings or {name} objects, or
// a single {name} object.
func authorOf(r gjson.Result) string {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return ""
	case r.IsArray():
		var names []string
		for _, item := range r.Array() {
			if name := authorOf(item); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	case r.IsObject():
		return strings.TrimSpace(r.Get("name").String())
	default:
		return strings.TrimSpace(r.String())
	}
}

func stripHTML(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
