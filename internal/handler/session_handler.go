package handler

import (
	"fmt"
	"net/http"
	"time"

	"news-reader/internal/logging"
	"news-reader/internal/session"
)

const keepAliveInterval = 25 * time.Second

// SessionHandler streams session changes to an open page as server-sent
// events. A "redirect" event carries the path the page must be replaced
// with.
type SessionHandler struct {
	hub       *session.Hub
	keepAlive time.Duration
}

func NewSessionHandler(hub *session.Hub) *SessionHandler {
	return &SessionHandler{hub: hub, keepAlive: keepAliveInterval}
}

// Events holds one subscription for the lifetime of the request and
// releases it when the client goes away.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		path = session.HomePath
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Buffered so the initial delivery inside Subscribe never blocks.
	events := make(chan session.Session, 4)
	unsubscribe := h.hub.Subscribe(session.FromContext(r.Context()), func(s session.Session) {
		select {
		case events <- s:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case s := <-events:
			target, redirect := session.Decide(s, path)
			if !redirect {
				continue
			}
			logging.FromContext(r.Context()).Debug("session changed, redirecting page")
			fmt.Fprintf(w, "event: redirect\ndata: %s\n\n", target)
			flusher.Flush()
			return
		}
	}
}
