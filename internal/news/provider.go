// Package news fetches article lists from a configured third-party provider
// and normalizes each provider's response shape into domain.Article.
package news

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"news-reader/internal/domain"
)

// Provider returns the current article list of one news source.
type Provider interface {
	Name() string
	FetchArticles(ctx context.Context) ([]domain.Article, error)
}

// Decoder maps a raw provider response to normalized articles. Decoders are
// pure and never touch the network.
type Decoder func(body []byte) ([]domain.Article, error)

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Query    string
	Timeout  time.Duration
}

type providerSpec struct {
	baseURL      string
	keyParam     string
	defaultQuery string
	decode       Decoder
}

var providers = map[string]providerSpec{
	"newsdata": {
		baseURL:      "https://newsdata.io/api/1/news",
		keyParam:     "apikey",
		defaultQuery: "country=ar,gb,us&language=en,es",
		decode:       DecodeNewsData,
	},
	"apitube": {
		baseURL:      "https://api.apitube.io/v1/news/everything",
		keyParam:     "api_key",
		defaultQuery: "language.code=es&sort_by=published_at&sort_order=asc",
		decode:       DecodeAPITube,
	},
	"worldnews": {
		baseURL:      "https://api.worldnewsapi.com/search-news",
		keyParam:     "api-key",
		defaultQuery: "language=es",
		decode:       DecodeWorldNews,
	},
	"rss": {
		decode: DecodeRSS,
	},
}

// New builds the provider selected by cfg.Provider.
func New(cfg Config) (Provider, error) {
	endpoint, err := BuildEndpoint(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewWithClient(cfg.Provider, endpoint, NewClient(cfg.Provider, timeout))
}

// NewWithClient builds a provider against an explicit endpoint.
func NewWithClient(name, endpoint string, client *Client) (Provider, error) {
	spec, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
	return &httpProvider{
		name:     name,
		endpoint: endpoint,
		client:   client,
		decode:   spec.decode,
	}, nil
}

// BuildEndpoint resolves the request URL, merging the provider's default
// query, cfg.Query and the API key.
func BuildEndpoint(cfg Config) (string, error) {
	spec, ok := providers[cfg.Provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownProvider, cfg.Provider)
	}

	base := spec.baseURL
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}
	if base == "" {
		return "", fmt.Errorf("provider %s requires NEWS_API_URL", cfg.Provider)
	}
	if spec.keyParam != "" && cfg.APIKey == "" {
		return "", fmt.Errorf("provider %s requires NEWS_API_KEY", cfg.Provider)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid provider URL: %w", err)
	}

	query := u.Query()
	for _, raw := range []string{spec.defaultQuery, cfg.Query} {
		if raw == "" {
			continue
		}
		extra, err := url.ParseQuery(raw)
		if err != nil {
			return "", fmt.Errorf("invalid provider query %q: %w", raw, err)
		}
		for key, values := range extra {
			query[key] = values
		}
	}
	if spec.keyParam != "" {
		query.Set(spec.keyParam, cfg.APIKey)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

type httpProvider struct {
	name     string
	endpoint string
	client   *Client
	decode   Decoder
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	body, err := p.client.Get(ctx, p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}

	articles, err := p.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return articles, nil
}

// Unavailable stands in for a provider that could not be configured.
type Unavailable struct {
	ProviderName string
	Reason       error
}

func (u Unavailable) Name() string {
	return u.ProviderName
}

func (u Unavailable) FetchArticles(context.Context) ([]domain.Article, error) {
	return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, u.Reason)
}
