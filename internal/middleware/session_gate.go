package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"news-reader/internal/logging"
	"news-reader/internal/session"
)

const (
	sessionName = "session"

	keyAuthenticated = "authenticated"
	keyUserID        = "user_id"
	keyEmail         = "email"
)

// SessionGate is the single authority on the signed-in state. It resolves
// the cookie session once per request, applies the routing decision and
// hands the resolved value to handlers through the request context.
type SessionGate struct {
	store sessions.Store
}

func NewSessionGate(store sessions.Store) *SessionGate {
	return &SessionGate{store: store}
}

// Resolve reads the session from r. Any store failure counts as signed out.
func (g *SessionGate) Resolve(r *http.Request) session.Session {
	sess, err := g.store.Get(r, sessionName)
	if err != nil {
		logging.FromContext(r.Context()).Debug("session unreadable, treating as signed out", slog.Any("error", err))
		return session.Anonymous()
	}

	auth, _ := sess.Values[keyAuthenticated].(bool)
	userID, _ := sess.Values[keyUserID].(string)
	if !auth || userID == "" {
		return session.Anonymous()
	}
	email, _ := sess.Values[keyEmail].(string)
	return session.SignedIn(userID, email)
}

// Gate redirects requests the current session may not see and stores the
// session in the request context for everything else.
func (g *SessionGate) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := g.Resolve(r)

		if target, redirect := session.Decide(current, r.URL.Path); redirect {
			http.Redirect(w, r, target, redirectStatus(r))
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), current)))
	})
}

// WithSession stores the resolved session in the context without gating.
func (g *SessionGate) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), g.Resolve(r))))
	})
}

func (g *SessionGate) SetUserSession(w http.ResponseWriter, r *http.Request, userID, email string) error {
	sess, err := g.store.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}

	sess.Values[keyAuthenticated] = true
	sess.Values[keyUserID] = userID
	sess.Values[keyEmail] = email

	return sess.Save(r, w)
}

func (g *SessionGate) ClearSession(w http.ResponseWriter, r *http.Request) error {
	sess, err := g.store.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}

	sess.Values[keyAuthenticated] = false
	delete(sess.Values, keyUserID)
	delete(sess.Values, keyEmail)

	return sess.Save(r, w)
}

// AddFlash queues a one-shot notice shown on the next rendered page.
func (g *SessionGate) AddFlash(w http.ResponseWriter, r *http.Request, message string) error {
	sess, err := g.store.Get(r, sessionName)
	if err != nil && sess == nil {
		return err
	}
	sess.AddFlash(message)
	return sess.Save(r, w)
}

// Flashes pops the queued notices.
func (g *SessionGate) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := g.store.Get(r, sessionName)
	if err != nil && sess == nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		logging.FromContext(r.Context()).Warn("failed to save session after reading flashes", slog.Any("error", err))
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Replacing redirects: page loads get 302, form posts 303.
func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
