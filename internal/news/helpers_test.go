package news

import "github.com/tidwall/gjson"

func gjsonParse(s string) gjson.Result {
	return gjson.Parse(s)
}
