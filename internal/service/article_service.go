package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news-reader/internal/cache"
	"news-reader/internal/domain"
	"news-reader/internal/logging"
	"news-reader/internal/metrics"
	"news-reader/internal/news"
)

// ArticleService serves the feed list and single-article lookups from one
// configured provider.
type ArticleService struct {
	provider news.Provider
	cache    *cache.Articles
}

func NewArticleService(provider news.Provider, articles *cache.Articles) *ArticleService {
	return &ArticleService{
		provider: provider,
		cache:    articles,
	}
}

func (s *ArticleService) ProviderName() string {
	return s.provider.Name()
}

// List fetches the current article list. A failed fetch is logged and
// yields an empty list. When ctx is done before the response arrives the
// result is discarded and the cache is left untouched.
func (s *ArticleService) List(ctx context.Context) []domain.Article {
	articles, err := s.fetch(ctx)
	if err != nil {
		return []domain.Article{}
	}
	return articles
}

// Find returns the article with id. A fresh cached snapshot is consulted
// first; otherwise the full list is fetched again and scanned.
// domain.ErrArticleNotFound means the fetch succeeded without a match.
func (s *ArticleService) Find(ctx context.Context, id string) (*domain.Article, error) {
	if s.cache != nil {
		if article, ok := s.cache.Get(id); ok {
			metrics.ArticleLookupTotal.WithLabelValues("cache", "found").Inc()
			return &article, nil
		}
	}

	articles, err := s.fetch(ctx)
	if err != nil {
		metrics.ArticleLookupTotal.WithLabelValues("refetch", "error").Inc()
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}

	article, ok := domain.FindArticle(articles, id)
	if !ok {
		metrics.ArticleLookupTotal.WithLabelValues("refetch", "not_found").Inc()
		return nil, domain.ErrArticleNotFound
	}

	metrics.ArticleLookupTotal.WithLabelValues("refetch", "found").Inc()
	return article, nil
}

func (s *ArticleService) fetch(ctx context.Context) ([]domain.Article, error) {
	logger := logging.FromContext(ctx)
	name := s.provider.Name()
	start := time.Now()

	articles, err := s.provider.FetchArticles(ctx)
	metrics.NewsFetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if ctxErr := ctx.Err(); ctxErr != nil {
		metrics.NewsFetchTotal.WithLabelValues(name, "canceled").Inc()
		logger.Debug("discarding article fetch for canceled request", slog.String("provider", name))
		return nil, ctxErr
	}
	if err != nil {
		metrics.NewsFetchTotal.WithLabelValues(name, "error").Inc()
		logger.Error("failed to fetch articles",
			slog.String("provider", name),
			slog.Any("error", err))
		return nil, err
	}

	metrics.NewsFetchTotal.WithLabelValues(name, "success").Inc()
	logger.Debug("fetched articles", slog.String("provider", name), slog.Int("count", len(articles)))

	if s.cache != nil {
		s.cache.Replace(articles)
	}
	return articles, nil
}

// IsCanceled reports whether err came from an abandoned request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
