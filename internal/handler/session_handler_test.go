package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-reader/internal/session"
)

func streamRequest(ctx context.Context, path string, s session.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/session/events?path="+path, nil).WithContext(ctx)
	return withSession(r, s)
}

func TestSessionEvents_SignOutRedirectsToLogin(t *testing.T) {
	hub := session.NewHub()
	h := NewSessionHandler(hub)

	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Events(w, streamRequest(context.Background(), "/about", session.SignedIn("uid-1", "a@b.co")))
	}()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(session.Session{UserID: "uid-1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after redirect")
	}

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event: redirect\ndata: /login\n\n")
	assert.Equal(t, 0, hub.Count())
}

func TestSessionEvents_DisconnectReleasesSubscription(t *testing.T) {
	hub := session.NewHub()
	h := NewSessionHandler(hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Events(httptest.NewRecorder(), streamRequest(ctx, "/", session.SignedIn("uid-1", "a@b.co")))
	}()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after disconnect")
	}
	assert.Equal(t, 0, hub.Count())
}

func TestSessionEvents_KeepAlive(t *testing.T) {
	hub := session.NewHub()
	h := NewSessionHandler(hub)
	h.keepAlive = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	w := httptest.NewRecorder()
	h.Events(w, streamRequest(ctx, "/", session.SignedIn("uid-1", "a@b.co")))

	assert.Contains(t, w.Body.String(), ": keep-alive")
	assert.NotContains(t, w.Body.String(), "event: redirect")
}
