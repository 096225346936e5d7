package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"news-reader/internal/domain"
	"news-reader/internal/form"
	"news-reader/internal/middleware"
	"news-reader/internal/service"
	"news-reader/internal/session"
	"news-reader/internal/view"
)

type stubArticles struct {
	articles []domain.Article
	err      error
}

func (s *stubArticles) ProviderName() string { return "stub" }

func (s *stubArticles) List(context.Context) []domain.Article {
	if s.err != nil {
		return []domain.Article{}
	}
	return s.articles
}

func (s *stubArticles) Find(_ context.Context, id string) (*domain.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := domain.FindArticle(s.articles, id); ok {
		return a, nil
	}
	return nil, domain.ErrArticleNotFound
}

type stubAuth struct {
	mu sync.Mutex

	signInResult *service.SignInResult
	err          error

	calls        map[string]int
	lastUID      string
	signedOutUID string
}

func newStubAuth() *stubAuth {
	return &stubAuth{calls: make(map[string]int)}
}

func (s *stubAuth) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubAuth) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubAuth) Register(context.Context, form.Register) (*domain.Account, error) {
	s.record("register")
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Account{UID: "uid-1", Email: "ana@example.com"}, nil
}

func (s *stubAuth) SignIn(context.Context, form.Login) (*service.SignInResult, error) {
	s.record("signin")
	return s.signInResult, s.err
}

func (s *stubAuth) SignOut(_ context.Context, uid string) {
	s.record("signout")
	s.signedOutUID = uid
}

func (s *stubAuth) Profile(context.Context, string) (*domain.Profile, error) {
	s.record("profile")
	return nil, domain.ErrProfileNotFound
}

func (s *stubAuth) CompleteProfile(_ context.Context, uid, email string, f form.CompleteProfile) (*domain.Profile, error) {
	s.record("complete")
	s.lastUID = uid
	if s.err != nil {
		return nil, s.err
	}
	return f.Profile(uid, email), nil
}

func (s *stubAuth) RequestPasswordReset(context.Context, form.ResetRequest) error {
	s.record("reset-request")
	return s.err
}

func (s *stubAuth) ResetPassword(context.Context, form.ResetConfirm) error {
	s.record("reset-confirm")
	return s.err
}

func testDeps(t *testing.T) (*view.Renderer, *middleware.SessionGate) {
	t.Helper()
	views, err := view.NewRenderer()
	require.NoError(t, err)
	gate := middleware.NewSessionGate(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")))
	return views, gate
}

func postForm(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func withSession(r *http.Request, s session.Session) *http.Request {
	return r.WithContext(session.NewContext(r.Context(), s))
}

func withID(r *http.Request, id string) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": id})
}
