package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ololeeye/ololeeye/internal/apperr"
	"github.com/ololeeye/ololeeye/internal/session"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession resolves the Authorization header into a session. Requests
// without a token proceed anonymously; a token that resolves to no user
// is rejected rather than silently downgraded.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, apperr.New(apperr.KindAuth, "malformed authorization header"))
			return
		}
		userID, ok := s.tokens[token]
		if !ok {
			writeError(w, apperr.New(apperr.KindAuth, "unknown token"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session.New(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the request's session, or nil for anonymous
// requests.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}
