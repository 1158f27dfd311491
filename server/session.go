package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

const sessionCookie = "session"

// session is one logged-in profile owner.
type session struct {
	ProfileID string
	Username  string
	expires   time.Time
}

type sessionKey struct{}

func (s *Server) createSession(profileID, username string) string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("failed to generate session token: " + err.Error())
	}
	token := hex.EncodeToString(bytes)

	s.sessionsMu.Lock()
	s.sessions[token] = session{ProfileID: profileID, Username: username, expires: time.Now().Add(s.cfg.SessionTTL)}
	s.sessionsMu.Unlock()

	return token
}

func (s *Server) validateSession(token string) (session, bool) {
	s.sessionsMu.RLock()
	sess, exists := s.sessions[token]
	s.sessionsMu.RUnlock()

	if !exists {
		return session{}, false
	}

	if time.Now().After(sess.expires) {
		s.sessionsMu.Lock()
		delete(s.sessions, token)
		s.sessionsMu.Unlock()
		return session{}, false
	}

	return sess, true
}

func (s *Server) deleteSession(token string) {
	s.sessionsMu.Lock()
	delete(s.sessions, token)
	s.sessionsMu.Unlock()
}

func (s *Server) getSessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.validateSession(s.getSessionFromRequest(r))
		if !ok {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// currentSession is only valid behind RequireAuth.
func currentSession(r *http.Request) session {
	sess, _ := r.Context().Value(sessionKey{}).(session)
	return sess
}
