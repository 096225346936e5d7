package domain

import "unicode/utf8"

const (
	// UnknownAuthor is shown when a provider omits the author.
	UnknownAuthor = "Desconocido"
	// UntitledTitle is shown when a provider omits the title.
	UntitledTitle = "Sin título"
	// PlaceholderImageURL replaces a missing or empty article image.
	PlaceholderImageURL = "https://via.placeholder.com/300"
	// BodyPreviewLength is the rune count after which the detail body is collapsed.
	BodyPreviewLength = 500
)

// Article is the provider-agnostic display record for one news item.
// ID is unique within a single fetch result only.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Body        string `json:"body"`
	Author      string `json:"author"`
	ImageURL    string `json:"image_url"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at"`
}

func (a *Article) Validate() error {
	if a.ID == "" {
		return ErrInvalidArticleID
	}
	if a.Title == "" {
		return ErrInvalidArticleTitle
	}
	return nil
}

// ApplyFallbacks fills the display defaults for optional fields.
func (a *Article) ApplyFallbacks() {
	if a.Title == "" {
		a.Title = UntitledTitle
	}
	if a.Author == "" {
		a.Author = UnknownAuthor
	}
	if a.ImageURL == "" {
		a.ImageURL = PlaceholderImageURL
	}
	if a.Body == "" {
		a.Body = a.Summary
	}
}

// IsLong reports whether the body exceeds the preview length.
func (a *Article) IsLong() bool {
	return utf8.RuneCountInString(a.Body) > BodyPreviewLength
}

// BodyPreview returns the full body when expanded or short, otherwise the
// first BodyPreviewLength runes followed by an ellipsis.
func (a *Article) BodyPreview(expanded bool) string {
	if expanded || !a.IsLong() {
		return a.Body
	}
	runes := []rune(a.Body)
	return string(runes[:BodyPreviewLength]) + "..."
}

// FindArticle returns the first article whose ID matches id.
func FindArticle(articles []Article, id string) (*Article, bool) {
	for i := range articles {
		if articles[i].ID == id {
			return &articles[i], true
		}
	}
	return nil, false
}
