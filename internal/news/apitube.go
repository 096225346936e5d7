package news

import (
	"fmt"

	"github.com/tidwall/gjson"

	"news-reader/internal/domain"
)

// DecodeAPITube normalizes an APITube response:
// {"results":[{"id":123,"title","description","body","href",
// "author":{"name"}|null,"image"|null,"published_at"}]}.
func DecodeAPITube(body []byte) ([]domain.Article, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("apitube: invalid JSON response")
	}
	root := gjson.ParseBytes(body)
	if root.Get("status").String() == "error" {
		return nil, fmt.Errorf("apitube: %s", firstString(root, "errors.0.message", "message"))
	}

	results := root.Get("results")
	if !results.IsArray() {
		return nil, fmt.Errorf("apitube: response has no results list")
	}

	var articles []domain.Article
	results.ForEach(func(_, item gjson.Result) bool {
		articles = append(articles, domain.Article{
			ID:          firstString(item, "id"),
			Title:       item.Get("title").String(),
			Summary:     stripHTML(item.Get("description").String()),
			Body:        stripHTML(item.Get("body").String()),
			Author:      authorOf(item.Get("author")),
			ImageURL:    firstString(item, "image"),
			Link:        firstString(item, "href"),
			PublishedAt: firstString(item, "published_at"),
		})
		return true
	})

	return finalize("apitube", articles), nil
}
