package news

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-reader/internal/domain"
)

func TestDecodeNewsData_MissingOptionalFields(t *testing.T) {
	body := []byte(`{"results":[{"article_id":"42","title":"T","description":"D","creator":null,"image_url":"","pubDate":"2024-01-01"}]}`)

	got, err := DecodeNewsData(body)
	require.NoError(t, err)

	want := []domain.Article{{
		ID:          "42",
		Title:       "T",
		Summary:     "D",
		Body:        "D",
		Author:      domain.UnknownAuthor,
		ImageURL:    domain.PlaceholderImageURL,
		PublishedAt: "2024-01-01T00:00:00Z",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNewsData_FullRecord(t *testing.T) {
	body := []byte(`{"status":"success","results":[{
		"article_id":"abc","title":" Titular ","link":"https://n.example/1",
		"description":"<p>Resumen <b>breve</b></p>","content":"ONLY AVAILABLE IN PAID PLANS",
		"creator":["Ana","Luis"],"image_url":"https://img.example/1.jpg","pubDate":"2024-03-05 14:30:00"}]}`)

	got, err := DecodeNewsData(body)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "Titular", a.Title)
	assert.Equal(t, "Resumen breve", a.Summary)
	assert.Equal(t, "Resumen breve", a.Body)
	assert.Equal(t, "Ana, Luis", a.Author)
	assert.Equal(t, "https://img.example/1.jpg", a.ImageURL)
	assert.Equal(t, "2024-03-05T14:30:00Z", a.PublishedAt)
}

func TestDecodeNewsData_ProviderError(t *testing.T) {
	_, err := DecodeNewsData([]byte(`{"status":"error","results":{"message":"API key invalid"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key invalid")
}

func TestDecoders_RejectMalformedBodies(t *testing.T) {
	for name, decode := range map[string]Decoder{
		"newsdata":  DecodeNewsData,
		"apitube":   DecodeAPITube,
		"worldnews": DecodeWorldNews,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decode([]byte(`not json`))
			assert.Error(t, err)

			_, err = decode([]byte(`{"unexpected":true}`))
			assert.Error(t, err)
		})
	}
}

func TestDecodeAPITube(t *testing.T) {
	body := []byte(`{"results":[
		{"id":9001,"title":"Uno","description":"desc","body":"cuerpo completo","href":"https://a.example/1","author":{"name":"Marta"},"image":null,"published_at":"2024-02-10T08:00:00Z"},
		{"id":9002,"title":"Dos","description":"","body":"","href":"https://a.example/2","author":null,"image":"https://img/2.png","published_at":"garbage"}
	]}`)

	got, err := DecodeAPITube(body)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "9001", got[0].ID)
	assert.Equal(t, "Marta", got[0].Author)
	assert.Equal(t, domain.PlaceholderImageURL, got[0].ImageURL)
	assert.Equal(t, "cuerpo completo", got[0].Body)

	assert.Equal(t, "9002", got[1].ID)
	assert.Equal(t, domain.UnknownAuthor, got[1].Author)
	assert.Equal(t, "garbage", got[1].PublishedAt)
}

func TestDecodeWorldNews(t *testing.T) {
	body := []byte(`{"news":[
		{"id":77,"title":"Tres","summary":"sum","text":"texto","url":"https://w.example/3","image":"","authors":["Pía"],"publish_date":"2024-05-01 10:00:00"},
		{"title":"Sin id","summary":"s","url":"https://w.example/4","published_date":"2024-05-02"}
	]}`)

	got, err := DecodeWorldNews(body)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "77", got[0].ID)
	assert.Equal(t, "sum", got[0].Summary)
	assert.Equal(t, "Pía", got[0].Author)
	assert.Equal(t, "2024-05-01T10:00:00Z", got[0].PublishedAt)

	assert.NotEmpty(t, got[1].ID)
	assert.Equal(t, "2024-05-02T00:00:00Z", got[1].PublishedAt)
}

func TestDecodeRSS(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><guid>g-1</guid><title>Primera</title><link>https://r.example/1</link>
<description>&lt;p&gt;Hola&lt;/p&gt;</description><pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
<enclosure url="https://r.example/1.jpg" type="image/jpeg" length="1"/></item>
<item><title>Segunda</title><link>https://r.example/2</link></item>
</channel></rss>`)

	got, err := DecodeRSS(body)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "g-1", got[0].ID)
	assert.Equal(t, "Hola", got[0].Summary)
	assert.Equal(t, "https://r.example/1.jpg", got[0].ImageURL)
	assert.Equal(t, "2024-01-01T10:00:00Z", got[0].PublishedAt)

	assert.NotEmpty(t, got[1].ID)
	assert.Equal(t, domain.PlaceholderImageURL, got[1].ImageURL)
}

func TestNormalizedArticlesAlwaysDisplayable(t *testing.T) {
	bodies := map[string][]byte{
		"newsdata":  []byte(`{"results":[{"title":"a"},{"article_id":"1","title":"b","creator":[]},{"article_id":"2"}]}`),
		"apitube":   []byte(`{"results":[{"id":1,"title":"a","author":{}},{"title":"b","href":"x"}]}`),
		"worldnews": []byte(`{"news":[{"title":"a","author":""},{"id":"","title":"b"}]}`),
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			got, err := providers[name].decode(body)
			require.NoError(t, err)
			require.NotEmpty(t, got)

			ids := map[string]bool{}
			for _, a := range got {
				assert.NotEmpty(t, a.ID)
				assert.NotEmpty(t, a.Title)
				assert.NotEmpty(t, a.Author)
				assert.NotEmpty(t, a.ImageURL)
				assert.False(t, ids[a.ID], "duplicate id %s", a.ID)
				ids[a.ID] = true
			}
		})
	}
}

func TestFinalize_KeepsFirstDuplicate(t *testing.T) {
	got := finalize("test", []domain.Article{
		{ID: "1", Title: "first"},
		{ID: "1", Title: "second"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Title)
}

func TestFinalize_UntitledRecordsGetFallbackTitle(t *testing.T) {
	got := finalize("test", []domain.Article{
		{ID: "2", Title: "   "},
		{Summary: "solo resumen"},
		{},
	})

	require.Len(t, got, 2, "only the record with nothing to identify it is skipped")
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, domain.UntitledTitle, got[0].Title)
	assert.NotEmpty(t, got[1].ID)
	assert.Equal(t, domain.UntitledTitle, got[1].Title)
	assert.Equal(t, "solo resumen", got[1].Body)
}

func TestAuthorOf(t *testing.T) {
	decode := func(s string) string { return authorOf(gjsonParse(s)) }

	assert.Equal(t, "", decode(`null`))
	assert.Equal(t, "Ana", decode(`"Ana"`))
	assert.Equal(t, "Ana, Luis", decode(`["Ana", "", "Luis"]`))
	assert.Equal(t, "Marta", decode(`{"name":"Marta"}`))
	assert.Equal(t, "Marta, Jo", decode(`[{"name":"Marta"},{"name":"Jo"}]`))
}
