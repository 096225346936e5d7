package news

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"news-reader/internal/domain"
)

// newsdata.io replaces content with this marker on free plans.
const newsDataPaidMarker = "ONLY AVAILABLE IN PAID PLANS"

// DecodeNewsData normalizes a newsdata.io response:
// {"status":"success","results":[{"article_id","title","link","description",
// "content","creator":[...]|null,"image_url","pubDate"}]}.
func DecodeNewsData(body []byte) ([]domain.Article, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("newsdata: invalid JSON response")
	}
	root := gjson.ParseBytes(body)
	if root.Get("status").String() == "error" {
		return nil, fmt.Errorf("newsdata: %s", firstString(root, "results.message", "message"))
	}

	results := root.Get("results")
	if !results.IsArray() {
		return nil, fmt.Errorf("newsdata: response has no results list")
	}

	articles := make([]domain.Article, 0, len(results.Array()))
	results.ForEach(func(_, item gjson.Result) bool {
		content := item.Get("content").String()
		if strings.Contains(content, newsDataPaidMarker) {
			content = ""
		}
		articles = append(articles, domain.Article{
			ID:          firstString(item, "article_id"),
			Title:       item.Get("title").String(),
			Summary:     stripHTML(item.Get("description").String()),
			Body:        stripHTML(content),
			Author:      authorOf(item.Get("creator")),
			ImageURL:    firstString(item, "image_url"),
			Link:        firstString(item, "link"),
			PublishedAt: firstString(item, "pubDate"),
		})
		return true
	})

	return finalize("newsdata", articles), nil
}
