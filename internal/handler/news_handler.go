package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"news-reader/internal/domain"
	"news-reader/internal/logging"
	"news-reader/internal/middleware"
	"news-reader/internal/service"
	"news-reader/internal/view"
)

const maxCommentBytes = 64 << 10

type NewsHandler struct {
	pages
	articles ArticleSource
}

func NewNewsHandler(articles ArticleSource, views *view.Renderer, gate *middleware.SessionGate) *NewsHandler {
	return &NewsHandler{
		pages:    pages{views: views, gate: gate},
		articles: articles,
	}
}

// Home renders the feed shell; the list itself is loaded from Articles.
func (h *NewsHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.Home, h.page(w, r, "Inicio"))
}

// Articles renders the card list fragment. A failed fetch renders the empty
// list.
func (h *NewsHandler) Articles(w http.ResponseWriter, r *http.Request) {
	articles := h.articles.List(r.Context())
	if r.Context().Err() != nil {
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, view.Articles, articles)
}

func (h *NewsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}
	expanded := r.URL.Query().Get("expanded") == "1"
	h.showDetail(w, r, id, expanded, domain.NewCommentThread(id, nil))
}

// AddComment appends the submitted comment to the thread carried by the
// form and renders the page again. Nothing is stored.
func (h *NewsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	thread := domain.NewCommentThread(id, r.PostForm["comments"])
	thread.Add(r.PostFormValue("comment"))

	h.showDetail(w, r, id, r.PostFormValue("expanded") == "1", thread)
}

// articleID reads the id route segment. The router matches on the escaped
// path, so the segment is unescaped here.
func articleID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid article id", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (h *NewsHandler) showDetail(w http.ResponseWriter, r *http.Request, id string, expanded bool, thread *domain.CommentThread) {
	logger := logging.FromContext(r.Context())

	article, err := h.articles.Find(r.Context(), id)
	if err != nil && service.IsCanceled(err) {
		return
	}

	data := h.page(w, r, "Noticia")
	detail := view.DetailData{ID: id, Expanded: expanded, Comments: thread.Comments()}
	status := http.StatusOK

	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		detail.NotFound = true
		status = http.StatusNotFound
	case err != nil:
		logger.Error("failed to load article", slog.String("id", id), slog.Any("error", err))
		data.Alert = "No se pudo cargar la noticia. Intentá de nuevo más tarde."
		status = http.StatusBadGateway
	default:
		detail.Article = article
		data.Title = article.Title
	}

	data.Data = detail
	h.render(w, r, status, view.Detail, data)
}

func (h *NewsHandler) About(w http.ResponseWriter, r *http.Request) {
	data := h.page(w, r, "Acerca de")
	data.Data = h.articles.ProviderName()
	h.render(w, r, http.StatusOK, view.About, data)
}
