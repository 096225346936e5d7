package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"news-reader/internal/domain"
	"news-reader/internal/form"
	"news-reader/internal/logging"
	"news-reader/internal/middleware"
	"news-reader/internal/service"
	"news-reader/internal/session"
	"news-reader/internal/view"
)

// ArticleSource is the feed pipeline as the pages see it.
type ArticleSource interface {
	ProviderName() string
	List(ctx context.Context) []domain.Article
	Find(ctx context.Context, id string) (*domain.Article, error)
}

// Authenticator is the auth and profile collaborator.
type Authenticator interface {
	Register(ctx context.Context, f form.Register) (*domain.Account, error)
	SignIn(ctx context.Context, f form.Login) (*service.SignInResult, error)
	SignOut(ctx context.Context, uid string)
	Profile(ctx context.Context, uid string) (*domain.Profile, error)
	CompleteProfile(ctx context.Context, uid, email string, f form.CompleteProfile) (*domain.Profile, error)
	RequestPasswordReset(ctx context.Context, f form.ResetRequest) error
	ResetPassword(ctx context.Context, f form.ResetConfirm) error
}

type pages struct {
	views *view.Renderer
	gate  *middleware.SessionGate
}

// page builds the data shared by every full page. Pending flash notices are
// consumed here, so call it before writing the response.
func (p *pages) page(w http.ResponseWriter, r *http.Request, title string) view.Page {
	return view.Page{
		Title:   title,
		Path:    r.URL.Path,
		Session: session.FromContext(r.Context()),
		Notices: p.gate.Flashes(w, r),
		CSRF:    csrf.TemplateField(r),
	}
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	if err := p.views.Render(w, status, name, data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render page",
			slog.String("page", name),
			slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (p *pages) redirectWithNotice(w http.ResponseWriter, r *http.Request, target, notice string) {
	if notice != "" {
		if err := p.gate.AddFlash(w, r, notice); err != nil {
			logging.FromContext(r.Context()).Warn("failed to store notice", slog.Any("error", err))
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
