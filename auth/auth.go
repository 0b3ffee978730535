// Package auth turns credentials into store-backed sessions and answers
// authorization questions against the role hierarchy.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/northbound/siteengine/store"
)

// ErrInvalidCredentials is returned for any login failure: unknown email,
// deactivated account, or wrong password. Callers get no hint which.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrNoSession is returned when a token does not resolve to a live
// session and user.
var ErrNoSession = errors.New("auth: no session")

// DefaultSessionTTL is how long a session lives unless configured
// otherwise.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Service authenticates users and manages their sessions.
type Service struct {
	store      *store.Store
	sessionTTL time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// NewService creates an auth Service over the given store.
func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, sessionTTL: DefaultSessionTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newToken returns a random opaque bearer credential.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Authenticate verifies an email/password pair. Unknown emails,
// deactivated accounts, and wrong passwords all fail the same way. On
// success the user's last_login is updated and the fresh row returned.
func (s *Service) Authenticate(email, password string) (*store.User, error) {
	user, err := s.store.UserByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	now := s.now()
	return s.store.Users.Update(user.ID, func(u *store.User) {
		u.LastLogin = &now
	})
}

// CreateSession issues a new session for the user.
func (s *Service) CreateSession(userID string) (*store.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	return s.store.Sessions.Insert(&store.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(s.sessionTTL),
	})
}

// ValidateSession resolves a token to its user. Expired sessions are
// deleted on first read, then fail closed. Sessions whose user is gone
// or deactivated are also deleted and fail closed, so deactivating a
// user revokes their outstanding sessions lazily.
func (s *Service) ValidateSession(token string) (*store.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	sess, err := s.store.SessionByToken(token)
	if err != nil {
		return nil, ErrNoSession
	}
	if sess.ExpiresAt.Before(s.now()) {
		s.store.Sessions.Delete(sess.ID)
		return nil, ErrNoSession
	}
	user, err := s.store.Users.Get(sess.UserID)
	if err != nil || !user.IsActive {
		s.store.Sessions.Delete(sess.ID)
		return nil, ErrNoSession
	}
	return user, nil
}

// DeleteSession removes the session with the given token and reports
// whether one existed. This is the logout path.
func (s *Service) DeleteSession(token string) bool {
	sess, err := s.store.SessionByToken(token)
	if err != nil {
		return false
	}
	return s.store.Sessions.Delete(sess.ID)
}

// RevokeUserSessions removes every session belonging to the user and
// returns how many were deleted. Called when an admin deactivates an
// account.
func (s *Service) RevokeUserSessions(userID string) int {
	n := 0
	for _, sess := range s.store.Sessions.List(func(sess *store.Session) bool { return sess.UserID == userID }) {
		if s.store.Sessions.Delete(sess.ID) {
			n++
		}
	}
	return n
}

// BearerToken extracts the token from an Authorization header value.
// Missing or malformed headers yield an empty token.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// UserFromRequest authenticates an HTTP request via its bearer token.
func (s *Service) UserFromRequest(r *http.Request) (*store.User, error) {
	return s.ValidateSession(BearerToken(r))
}
