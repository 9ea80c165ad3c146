package session_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(now func() time.Time) *session.Session {
	return session.New(session.WithNowTime(now))
}

func fullResponse() *oauthmodel.SuccessfulResponse {
	return &oauthmodel.SuccessfulResponse{
		AccessToken:         "access-1",
		TokenType:           oauthmodel.BearerTokenType,
		AuthenticationToken: "authn-1",
		RefreshToken:        "refresh-1",
		ExpiresIn:           utils.Ptr(3600),
		Scope:               "a b",
	}
}

func TestLoadFromResponse(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.LoadFromResponse(fullResponse())

	require.Equal(t, "access-1", s.AccessToken())
	require.Equal(t, "bearer", s.TokenType())
	require.Equal(t, "authn-1", s.AuthenticationToken())
	require.Equal(t, "refresh-1", s.RefreshToken())
	require.Equal(t, testTime.Add(time.Hour), s.ExpiresAt())
	require.Equal(t, []string{"a", "b"}, s.Scopes())
}

func TestLoadFromResponseKeepsRefreshTokenWhenOmitted(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.LoadFromResponse(fullResponse())

	// A refresh-grant response typically omits refresh_token. The stored
	// token must survive.
	s.LoadFromResponse(&oauthmodel.SuccessfulResponse{
		AccessToken: "access-2",
		TokenType:   oauthmodel.BearerTokenType,
		ExpiresIn:   utils.Ptr(3600),
	})

	require.Equal(t, "access-2", s.AccessToken())
	require.Equal(t, "refresh-1", s.RefreshToken())
	require.Equal(t, "authn-1", s.AuthenticationToken())
	require.Equal(t, []string{"a", "b"}, s.Scopes())
}

func TestIsExpired(t *testing.T) {
	now := testTime
	s := newTestSession(func() time.Time { return now })

	require.True(t, s.IsExpired(), "empty session is expired")

	s.LoadFromResponse(fullResponse())
	require.False(t, s.IsExpired())

	now = testTime.Add(time.Hour)
	require.True(t, s.IsExpired(), "expiry boundary is inclusive")
}

func TestIsExpiredWithoutAccessToken(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.LoadFromResponse(fullResponse())
	s.Clear()

	require.True(t, s.IsExpired(), "a session without an access token is always expired")
}

func TestWillExpireWithinBoundary(t *testing.T) {
	now := testTime
	s := newTestSession(func() time.Time { return now })
	s.LoadFromResponse(fullResponse())

	require.True(t, s.WillExpireWithin(time.Hour), "inclusive at exactly the expiry horizon")

	now = testTime.Add(-time.Second)
	require.False(t, s.WillExpireWithin(time.Hour))

	now = testTime
	require.False(t, s.WillExpireWithin(time.Hour-time.Second))
}

func TestContains(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })

	require.True(t, s.Contains(nil), "empty requirement is trivially satisfied")
	require.True(t, s.Contains([]string{}))
	require.False(t, s.Contains([]string{"a"}), "no granted scopes")

	s.LoadFromResponse(fullResponse())

	require.True(t, s.Contains([]string{"a"}))
	require.True(t, s.Contains([]string{"a", "b"}))
	require.False(t, s.Contains([]string{"c"}))
	require.False(t, s.Contains([]string{"a", "c"}))
}

func TestClear(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.LoadFromResponse(fullResponse())
	s.Clear()

	require.Empty(t, s.AccessToken())
	require.Empty(t, s.AuthenticationToken())
	require.Empty(t, s.RefreshToken())
	require.Empty(t, s.TokenType())
	require.Empty(t, s.Scopes())
	require.True(t, s.ExpiresAt().IsZero())
	require.True(t, s.IsExpired())
}

func TestObserverReceivesFieldTransitions(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })

	var changes []session.FieldChange
	s.Observe(func(change session.FieldChange) {
		changes = append(changes, change)
	})

	s.LoadFromResponse(&oauthmodel.SuccessfulResponse{
		AccessToken: "access-1",
		TokenType:   oauthmodel.BearerTokenType,
	})

	require.Len(t, changes, 2)
	require.Equal(t, session.FieldAccessToken, changes[0].Field)
	require.Equal(t, "", changes[0].Old)
	require.Equal(t, "access-1", changes[0].New)
	require.Equal(t, session.FieldTokenType, changes[1].Field)
}

func TestObserverPanicDoesNotFailMutation(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.Observe(func(session.FieldChange) { panic("observer bug") })

	require.NotPanics(t, func() {
		s.LoadFromResponse(fullResponse())
	})
	require.Equal(t, "access-1", s.AccessToken())
}

func TestObserverMayReadSession(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })

	var seen string
	s.Observe(func(change session.FieldChange) {
		if change.Field == session.FieldAccessToken {
			seen = s.AccessToken()
		}
	})

	s.LoadFromResponse(fullResponse())
	require.Equal(t, "access-1", seen)
}

func TestStringRedactsTokens(t *testing.T) {
	s := newTestSession(func() time.Time { return testTime })
	s.LoadFromResponse(&oauthmodel.SuccessfulResponse{
		AccessToken:  "EwAoAq1DBAAUGCCXc8wU",
		TokenType:    oauthmodel.BearerTokenType,
		RefreshToken: "CuZ9zt1DBAAUGCCXc8wU",
	})

	rendered := s.String()
	require.NotContains(t, rendered, "EwAoAq1DBAAUGCCXc8wU")
	require.NotContains(t, rendered, "CuZ9zt1DBAAUGCCXc8wU")
}
