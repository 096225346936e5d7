package news

import (
	"fmt"

	"github.com/tidwall/gjson"

	"news-reader/internal/domain"
)

// DecodeWorldNews normalizes a response that lists records under "news":
// {"news":[{"id","title","summary","text","url","image",
// "author"|"authors":[...],"published_date"|"publish_date"}]}.
func DecodeWorldNews(body []byte) ([]domain.Article, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("worldnews: invalid JSON response")
	}
	root := gjson.ParseBytes(body)

	list := root.Get("news")
	if !list.IsArray() {
		return nil, fmt.Errorf("worldnews: response has no news list")
	}

	var articles []domain.Article
	list.ForEach(func(_, item gjson.Result) bool {
		author := authorOf(item.Get("author"))
		if author == "" {
			author = authorOf(item.Get("authors"))
		}
		articles = append(articles, domain.Article{
			ID:          firstString(item, "id"),
			Title:       item.Get("title").String(),
			Summary:     stripHTML(firstString(item, "summary", "description")),
			Body:        stripHTML(item.Get("text").String()),
			Author:      author,
			ImageURL:    firstString(item, "image"),
			Link:        firstString(item, "url"),
			PublishedAt: firstString(item, "published_date", "publish_date", "published_at"),
		})
		return true
	})

	return finalize("worldnews", articles), nil
}
