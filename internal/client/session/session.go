// Package session holds the authenticated identity of the current user.
//
// A Session is the single owner of the bearer token. Requests only read it;
// the one mutation triggered from the request path is Expire, called with
// the token a request carried when the backend answers 401. Expire clears
// the token and fires the sign-out callback once per signed-in token, no
// matter how many requests fail concurrently.
//
// The user id is the token's subject claim. It is used to tell the user's
// own messages apart from others' and never for authorization.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/launchpad/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSubject      = errors.New("token has no subject claim")
	ErrNoToken        = errors.New("not signed in")
	ErrMalformedToken = errors.New("malformed token")
)

// Store persists the session between runs.
type Store interface {
	LoadSession(ctx context.Context) (token string, userID string, err error)
	SaveSession(ctx context.Context, token string, userID string) error
	ClearSession(ctx context.Context) error
}

// Session is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	token   string
	userID  string
	expired bool

	store    Store
	onExpire func()
	log      logging.Logger
}

type Option func(*Session)

// WithStore persists sign-in and clears the stored token on expiry.
func WithStore(st Store) Option {
	return func(s *Session) { s.store = st }
}

// WithExpiryHandler registers the global sign-out side effect.
func WithExpiryHandler(fn func()) Option {
	return func(s *Session) { s.onExpire = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func New(opts ...Option) *Session {
	s := &Session{log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads a previously saved token from the store, if any.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	token, userID, err := s.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" {
		return nil
	}
	if userID == "" {
		if userID, err = SubjectFromToken(token); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.token, s.userID, s.expired = token, userID, false
	s.mu.Unlock()
	return nil
}

// SignIn installs token, derives the user id from its subject claim and
// persists both.
func (s *Session) SignIn(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	userID, err := SubjectFromToken(token)
	if err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.SaveSession(ctx, token, userID); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	s.mu.Lock()
	s.token, s.userID, s.expired = token, userID, false
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", userID)
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) SignedIn() bool {
	return s.Token() != ""
}

// Expire handles an auth_expired response to a request sent with token.
// Only the first call for the current token clears it and fires the expiry
// handler. A 401 for an older token, or one arriving after SignOut, is
// ignored.
func (s *Session) Expire(ctx context.Context, token string) {
	s.mu.Lock()
	if s.expired || token == "" || token != s.token {
		s.mu.Unlock()
		return
	}
	s.expired = true
	s.token, s.userID = "", ""
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearSession(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear stored session", "error", err)
		}
	}
	s.log.Warn(ctx, "session expired, signing out")
	if s.onExpire != nil {
		s.onExpire()
	}
}

// SignOut is the user-initiated logout. It does not fire the expiry handler.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.userID, s.expired = "", "", true
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearSession(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}

// SubjectFromToken extracts the subject of a JWT without verifying its
// signature. Verification is the backend's job.
func SubjectFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if sub == "" {
		// Some issuers put the id in a custom claim.
		if id, ok := claims["user_id"].(string); ok && id != "" {
			return id, nil
		}
		return "", ErrNoSubject
	}
	return sub, nil
}
