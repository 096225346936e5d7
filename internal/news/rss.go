package news

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"news-reader/internal/domain"
)

// DecodeRSS normalizes an RSS, Atom or JSON Feed document.
func DecodeRSS(body []byte) ([]domain.Article, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rss: %w", err)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := domain.Article{
			ID:          item.GUID,
			Title:       item.Title,
			Summary:     stripHTML(item.Description),
			Body:        stripHTML(item.Content),
			Link:        item.Link,
			PublishedAt: item.Published,
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			a.Author = item.Authors[0].Name
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		} else {
			for _, enc := range item.Enclosures {
				if enc != nil && strings.HasPrefix(enc.Type, "image/") {
					a.ImageURL = enc.URL
					break
				}
			}
		}
		articles = append(articles, a)
	}

	return finalize("rss", articles), nil
}
