// Package transport signs outgoing resource-API requests with the current
// access token and coordinates with the auth client when the server rejects
// one.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/session"
)

// defaultExpiryMargin is how close to expiry a session may get before a
// request triggers a pre-emptive refresh. Covers clock skew between client
// and server plus network latency.
const defaultExpiryMargin = 30 * time.Second

const defaultUserAgent = "go-auth-client"

// Authenticator is the slice of auth.Client the signer needs.
type Authenticator interface {
	Session() *session.Session
	Refresh(ctx context.Context) bool
}

// Signer is an http.RoundTripper that adds the bearer token to every
// request. When the session is about to expire it refreshes first; when the
// resource API still answers 401 it forces one refresh and retries exactly
// once. With no token at all the request is forwarded unsigned, letting the
// resource API reject it and the application decide to log in.
type Signer struct {
	auth      Authenticator
	base      http.RoundTripper
	margin    time.Duration
	userAgent string
	logger    zerolog.Logger
}

// SignerOption modifies a Signer instance.
type SignerOption func(*Signer)

// WithBase sets the underlying round tripper. Defaults to
// http.DefaultTransport.
func WithBase(base http.RoundTripper) SignerOption {
	return func(s *Signer) {
		s.base = base
	}
}

// WithExpiryMargin sets how early before expiry a pre-emptive refresh is
// attempted.
func WithExpiryMargin(margin time.Duration) SignerOption {
	return func(s *Signer) {
		s.margin = margin
	}
}

// WithUserAgent sets the User-Agent applied to signed requests.
func WithUserAgent(userAgent string) SignerOption {
	return func(s *Signer) {
		s.userAgent = userAgent
	}
}

// WithLogger sets the signer's logger.
func WithLogger(logger zerolog.Logger) SignerOption {
	return func(s *Signer) {
		s.logger = logger
	}
}

// NewSigner creates a Signer over the given authenticator.
func NewSigner(auth Authenticator, options ...SignerOption) *Signer {
	s := &Signer{
		auth:      auth,
		base:      http.DefaultTransport,
		margin:    defaultExpiryMargin,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *Signer) RoundTrip(req *http.Request) (*http.Response, error) {
	sess := s.auth.Session()

	if sess.AccessToken() == "" {
		return s.base.RoundTrip(req)
	}

	if sess.WillExpireWithin(s.margin) {
		if !s.auth.Refresh(req.Context()) {
			s.logger.Debug().Msg("pre-emptive refresh failed, signing with current token")
		}
	}

	resp, err := s.base.RoundTrip(s.sign(req, sess.AccessToken()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !s.retryable(req) {
		return resp, nil
	}

	// The resource API rejected the token. Force one refresh and retry
	// exactly once.
	if !s.auth.Refresh(req.Context()) {
		return resp, nil
	}
	drain(resp)

	return s.base.RoundTrip(s.sign(req, sess.AccessToken()))
}

// sign clones the request so retries and the caller's copy stay untouched.
func (s *Signer) sign(req *http.Request, accessToken string) *http.Request {
	signed := req.Clone(req.Context())
	signed.Header.Set("Authorization", "bearer "+accessToken)
	if signed.Header.Get("User-Agent") == "" {
		signed.Header.Set("User-Agent", s.userAgent)
	}
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			signed.Body = body
		}
	}
	return signed
}

// retryable reports whether the request body can be replayed.
func (s *Signer) retryable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
