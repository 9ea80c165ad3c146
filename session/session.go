// Package session holds the authentication state for exactly one logical
// user of a client. The session object is created and owned by auth.Client
// for the client's whole lifetime; it is fully overwritten on every
// successful token exchange and cleared on logout, never replaced.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/rs/zerolog"
)

// Field names carried on change notifications.
const (
	FieldAccessToken         = "accessToken"
	FieldAuthenticationToken = "authenticationToken"
	FieldExpiresAt           = "expiresAt"
	FieldRefreshToken        = "refreshToken"
	FieldScopes              = "scopes"
	FieldTokenType           = "tokenType"
)

// FieldChange describes one field transition on a Session.
type FieldChange struct {
	Field string
	Old   any
	New   any
}

// Observer receives field change notifications. Delivery is synchronous and
// best-effort: an observer panic is recovered and logged, and never fails
// the mutation that triggered it.
type Observer func(change FieldChange)

// Session is the mutable state of one authenticated identity. All reads and
// writes are mutex-guarded; only auth.Client mutates it, from the goroutine
// handling a completed token exchange.
type Session struct {
	mu                  sync.RWMutex
	accessToken         string
	authenticationToken string
	refreshToken        string
	tokenType           string
	scopes              map[string]struct{}
	expiresAt           time.Time

	observers []Observer
	nowTime   func() time.Time
	logger    zerolog.Logger
}

// Option modifies a Session instance.
type Option func(*Session)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Session) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for observer panic reports.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New creates an empty, expired Session.
func New(options ...Option) *Session {
	s := &Session{
		nowTime: time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Observe registers an observer for all subsequent field changes.
func (s *Session) Observe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// AccessToken returns the current access token, or "" when not
// authenticated.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// AuthenticationToken returns the optional auxiliary identity token.
func (s *Session) AuthenticationToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticationToken
}

// RefreshToken returns the long-lived refresh token, or "" when none is
// held.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// TokenType returns the normalized (lower-case) token type.
func (s *Session) TokenType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokenType
}

// ExpiresAt returns the absolute expiry instant of the access token. The
// zero time means the session is treated as expired.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Scopes returns a sorted copy of the granted scopes.
func (s *Session) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scopes := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

// IsExpired reports whether the session can no longer sign requests: there
// is no access token, no known expiry, or the expiry has passed.
func (s *Session) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isExpiredLocked()
}

func (s *Session) isExpiredLocked() bool {
	if s.accessToken == "" || s.expiresAt.IsZero() {
		return true
	}
	return !s.nowTime().Before(s.expiresAt)
}

// WillExpireWithin reports whether the session is expired now or will be at
// now+d. The boundary is inclusive: a session expiring exactly at now+d
// counts as expiring. Used to refresh pre-emptively instead of reacting to
// an authorization failure.
func (s *Session) WillExpireWithin(d time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.isExpiredLocked() {
		return true
	}
	return !s.nowTime().Add(d).Before(s.expiresAt)
}

// Contains reports whether every required scope has been granted. An empty
// or nil requirement is trivially satisfied.
func (s *Session) Contains(requiredScopes []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(requiredScopes) == 0 {
		return true
	}
	if s.scopes == nil {
		return false
	}
	for _, scope := range requiredScopes {
		if _, ok := s.scopes[scope]; !ok {
			return false
		}
	}
	return true
}

// LoadFromResponse overwrites the session from a successful token exchange.
// The access token and token type always overwrite; the authentication
// token, absolute expiry (now + expires_in), refresh token, and scope set
// overwrite only when present in the response. A refresh response that
// omits refresh_token leaves the previously stored one untouched.
func (s *Session) LoadFromResponse(response *oauthmodel.SuccessfulResponse) {
	s.mu.Lock()

	var changes []FieldChange
	changes = s.setAccessTokenLocked(response.AccessToken, changes)
	changes = s.setTokenTypeLocked(string(response.TokenType), changes)

	if response.HasAuthenticationToken() {
		changes = s.setAuthenticationTokenLocked(response.AuthenticationToken, changes)
	}
	if response.HasExpiresIn() {
		expiresAt := s.nowTime().Add(time.Duration(utils.Value(response.ExpiresIn)) * time.Second)
		changes = s.setExpiresAtLocked(expiresAt, changes)
	}
	if response.HasRefreshToken() {
		changes = s.setRefreshTokenLocked(response.RefreshToken, changes)
	}
	if response.HasScope() {
		changes = s.setScopesLocked(response.Scopes(), changes)
	}

	s.mu.Unlock()
	s.notify(changes)
}

// Clear resets every field to its zero value.
func (s *Session) Clear() {
	s.mu.Lock()

	var changes []FieldChange
	changes = s.setAccessTokenLocked("", changes)
	changes = s.setAuthenticationTokenLocked("", changes)
	changes = s.setRefreshTokenLocked("", changes)
	changes = s.setTokenTypeLocked("", changes)
	changes = s.setScopesLocked(nil, changes)
	changes = s.setExpiresAtLocked(time.Time{}, changes)

	s.mu.Unlock()
	s.notify(changes)
}

func (s *Session) setAccessTokenLocked(value string, changes []FieldChange) []FieldChange {
	old := s.accessToken
	s.accessToken = value
	return append(changes, FieldChange{Field: FieldAccessToken, Old: old, New: value})
}

func (s *Session) setAuthenticationTokenLocked(value string, changes []FieldChange) []FieldChange {
	old := s.authenticationToken
	s.authenticationToken = value
	return append(changes, FieldChange{Field: FieldAuthenticationToken, Old: old, New: value})
}

func (s *Session) setRefreshTokenLocked(value string, changes []FieldChange) []FieldChange {
	old := s.refreshToken
	s.refreshToken = value
	return append(changes, FieldChange{Field: FieldRefreshToken, Old: old, New: value})
}

func (s *Session) setTokenTypeLocked(value string, changes []FieldChange) []FieldChange {
	old := s.tokenType
	s.tokenType = value
	return append(changes, FieldChange{Field: FieldTokenType, Old: old, New: value})
}

func (s *Session) setScopesLocked(scopes []string, changes []FieldChange) []FieldChange {
	old := s.scopes

	var set map[string]struct{}
	if scopes != nil {
		set = make(map[string]struct{}, len(scopes))
		for _, scope := range scopes {
			set[scope] = struct{}{}
		}
	}
	s.scopes = set
	return append(changes, FieldChange{Field: FieldScopes, Old: old, New: set})
}

func (s *Session) setExpiresAtLocked(value time.Time, changes []FieldChange) []FieldChange {
	old := s.expiresAt
	s.expiresAt = value
	return append(changes, FieldChange{Field: FieldExpiresAt, Old: old, New: value})
}

// notify delivers field changes outside the session lock so observers may
// read back from the session without deadlocking.
func (s *Session) notify(changes []FieldChange) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, change := range changes {
		for _, observer := range observers {
			s.deliver(observer, change)
		}
	}
}

func (s *Session) deliver(observer Observer, change FieldChange) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("field", change.Field).Interface("panic", r).Msg("session observer panicked")
		}
	}()
	observer(change)
}

func (s *Session) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("Session [accessToken=%s, tokenType=%s, hasRefreshToken=%t, scopes=%v, expiresAt=%s]",
		redact(s.accessToken), s.tokenType, s.refreshToken != "", s.scopesSortedLocked(), s.expiresAt.Format(time.RFC3339))
}

func (s *Session) scopesSortedLocked() []string {
	scopes := make([]string, 0, len(s.scopes))
	for scope := range s.scopes {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}

func redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
