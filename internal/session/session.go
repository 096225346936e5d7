// Package session models the signed-in state and the routing decision made
// from it. The gate middleware resolves a Session once per request and every
// handler reads that value from the request context.
package session

import (
	"context"
	"strings"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

var publicRoutes = map[string]bool{
	"login":           true,
	"register":        true,
	"forgot-password": true,
}

// Signed-in users are sent away from these.
var authOnlyRoutes = map[string]bool{
	"login":    true,
	"register": true,
}

type Session struct {
	Authenticated bool
	UserID        string
	Email         string
}

func Anonymous() Session {
	return Session{}
}

func SignedIn(userID, email string) Session {
	return Session{Authenticated: true, UserID: userID, Email: email}
}

// Segment returns the first path segment of path without slashes.
func Segment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func IsPublic(path string) bool {
	return publicRoutes[Segment(path)]
}

func IsAuthOnly(path string) bool {
	return authOnlyRoutes[Segment(path)]
}

// Decide returns where a request for path must be sent given s, if anywhere.
func Decide(s Session, path string) (target string, redirect bool) {
	if !s.Authenticated {
		if IsPublic(path) {
			return "", false
		}
		return LoginPath, true
	}
	if IsAuthOnly(path) {
		return HomePath, true
	}
	return "", false
}

type contextKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session resolved by the gate. A missing value is
// treated as anonymous.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(contextKey{}).(Session); ok {
		return s
	}
	return Anonymous()
}
