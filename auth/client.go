// Package auth manages one OAuth2 authentication session for a client of a
// remote resource API: silent restoration from a persisted refresh token,
// interactive login, pre-emptive refresh, and logout.
package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/auth/authui"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/jrsteele09/go-auth-client/prefs"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token"
)

// expiredCookieSuffix rewrites a cookie with an expiry far in the past so an
// embedded web view drops it.
const expiredCookieSuffix = "=; expires=Thu, 30-Oct-1980 16:00:00 GMT;domain="

// Config identifies this client to the authorization server.
type Config struct {
	// ClientID is the registered OAuth2 client identifier.
	ClientID string

	// TokenURI is the token endpoint receiving the form-encoded grants.
	TokenURI string

	// AuthorizeURI is the interactive authorization endpoint.
	AuthorizeURI string

	// LogoutURI is the endpoint whose host scopes the cookies expired on
	// logout.
	LogoutURI string

	// RedirectURI is where the authorization response is delivered.
	RedirectURI string
}

// CompletionFunc receives the outcome of a Client operation. On success err
// is nil and sess is the client's session; on failure err is non-nil
// (*Error for exchange failures) and sess is nil. userState is the opaque
// value the caller passed in, returned uninterpreted.
type CompletionFunc func(status Status, sess *session.Session, userState any, err error)

// Client owns the single session of one authenticated identity and
// orchestrates every token exchange that mutates it.
//
// Completion callbacks run on the goroutine that handled the exchange;
// callers needing a particular execution context marshal the callback
// themselves. Session mutations are applied before the callback observing
// them fires.
type Client struct {
	cfg        Config
	httpClient *http.Client
	prefsRepo  prefs.Repo
	authorizer authui.Authorizer
	cookies    authui.CookieStore
	logger     zerolog.Logger
	async      *token.Async
	sess       *session.Session
	nowTime    func() time.Time

	mu sync.Mutex
	// requestInFlight is the unified single-flight guard for login and
	// refresh, so the two cannot race on session fields.
	requestInFlight bool
	// logoutGeneration gates response application: a token exchange only
	// applies if no logout happened since it started.
	logoutGeneration     uint64
	scopesFromInitialize []string
}

// Option modifies a Client instance.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for token exchanges (primarily
// for testing).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// WithCookieStore sets the cookie store whose keys logout expires.
func WithCookieStore(cookies authui.CookieStore) Option {
	return func(c *Client) {
		c.cookies = cookies
	}
}

// New creates a Client and its session. authorizer may be nil for headless
// clients that only ever Initialize and Refresh; Login then fails with a
// client error.
func New(cfg Config, prefsRepo prefs.Repo, authorizer authui.Authorizer, options ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("[auth.New] ClientID is required")
	}
	if cfg.TokenURI == "" {
		return nil, errors.New("[auth.New] TokenURI is required")
	}
	if prefsRepo == nil {
		return nil, errors.New("[auth.New] prefs repo is required")
	}

	client := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		prefsRepo:  prefsRepo,
		authorizer: authorizer,
		logger:     zerolog.Nop(),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(client)
	}

	client.sess = session.New(
		session.WithNowTime(client.nowTime),
		session.WithLogger(client.logger),
	)
	client.async = token.NewAsync(token.WithLogger(client.logger))

	return client, nil
}

// Session returns the session this client owns. The same object is reused
// for the client's lifetime; observe it for field transitions.
func (c *Client) Session() *session.Session {
	return c.sess
}

// Initialize attempts silent restoration from the persisted refresh token.
// With no persisted token it completes immediately with StatusUnknown and an
// empty session. A failed refresh also completes with StatusUnknown, not an
// error: that is the expected first-run outcome. The scopes given here are
// remembered for a later Login call with nil scopes.
func (c *Client) Initialize(ctx context.Context, scopes []string, done CompletionFunc, userState any) {
	done = ensureDone(done)

	c.mu.Lock()
	c.scopesFromInitialize = append([]string(nil), scopes...)
	c.mu.Unlock()

	refreshToken, ok, err := c.prefsRepo.Get(prefs.RefreshTokenKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read persisted refresh token")
	}
	if !ok || refreshToken == "" {
		done(StatusUnknown, nil, userState, nil)
		return
	}

	if !c.tryAcquireRequestGuard() {
		done(StatusUnknown, nil, userState, ErrLoginInProgress)
		return
	}
	gen := c.generation()

	request := token.NewRefreshTokenRequest(c.httpClient, c.cfg.TokenURI, c.cfg.ClientID,
		refreshToken, strings.Join(scopes, oauthmodel.ScopeDelimiter))

	c.async.Do(ctx, request, func(response oauthmodel.Response, err error) {
		c.releaseRequestGuard()

		if err != nil {
			c.logger.Debug().Err(err).Msg("silent initialize failed on transport")
			done(StatusUnknown, nil, userState, nil)
			return
		}

		switch r := response.(type) {
		case *oauthmodel.SuccessfulResponse:
			if !c.applySuccess(r, gen) {
				done(StatusUnknown, nil, userState, nil)
				return
			}
			done(StatusConnected, c.sess, userState, nil)
		case *oauthmodel.ErrorResponse:
			c.handleErrorResponse(r)
			done(StatusUnknown, nil, userState, nil)
		}
	})
}

// Login establishes an interactive session. If the current session is not
// expired and already contains the requested scopes it completes with
// StatusConnected without a network call. A second Login (or a Refresh)
// while one is in flight fails fast with ErrLoginInProgress. nil scopes fall
// back to the scopes from Initialize.
func (c *Client) Login(ctx context.Context, scopes []string, done CompletionFunc, userState any) {
	done = ensureDone(done)

	if scopes == nil {
		c.mu.Lock()
		scopes = c.scopesFromInitialize
		c.mu.Unlock()
	}

	if !c.sess.IsExpired() && c.sess.Contains(scopes) {
		done(StatusConnected, c.sess, userState, nil)
		return
	}

	if c.authorizer == nil {
		done(StatusUnknown, nil, userState, clientError(errors.New("no authorizer configured")))
		return
	}

	if !c.tryAcquireRequestGuard() {
		done(StatusUnknown, nil, userState, ErrLoginInProgress)
		return
	}

	go c.runLogin(ctx, scopes, c.generation(), done, userState)
}

func (c *Client) runLogin(ctx context.Context, scopes []string, gen uint64, done CompletionFunc, userState any) {
	state := uuid.New().String()
	authorizeURL := c.buildAuthorizeURL(scopes, state)

	code, echoedState, err := c.authorizer.Authorize(ctx, authorizeURL)
	if err != nil {
		c.releaseRequestGuard()
		done(StatusNotConnected, nil, userState, clientError(err))
		return
	}
	if echoedState != state {
		c.releaseRequestGuard()
		done(StatusNotConnected, nil, userState, clientError(errors.New("authorization state mismatch")))
		return
	}

	request := token.NewAccessTokenRequest(c.httpClient, c.cfg.TokenURI, c.cfg.ClientID,
		c.cfg.RedirectURI, code)

	c.async.Do(ctx, request, func(response oauthmodel.Response, err error) {
		// The guard is released on every completion path so a failed request
		// cannot wedge future logins.
		c.releaseRequestGuard()

		if err != nil {
			done(StatusUnknown, nil, userState, transportError(err))
			return
		}

		switch r := response.(type) {
		case *oauthmodel.SuccessfulResponse:
			if !c.applySuccess(r, gen) {
				// Logged out while the exchange was in flight; discard the
				// late success instead of silently re-authenticating.
				done(StatusUnknown, nil, userState, nil)
				return
			}
			done(StatusConnected, c.sess, userState, nil)
		case *oauthmodel.ErrorResponse:
			c.handleErrorResponse(r)
			done(StatusUnknown, nil, userState, errorFromResponse(r))
		}
	})
}

// Logout synchronously clears the session, deletes the persisted refresh
// token, and expires any stored cookie keys. It always completes with
// StatusUnknown and no error: logout is idempotent and best-effort. An
// in-flight exchange is not cancelled, but its late response is discarded.
func (c *Client) Logout(done CompletionFunc, userState any) {
	done = ensureDone(done)

	c.mu.Lock()
	c.logoutGeneration++
	c.sess.Clear()
	if err := c.prefsRepo.Delete(prefs.RefreshTokenKey); err != nil {
		c.logger.Warn().Err(err).Msg("failed to delete persisted refresh token on logout")
	}
	c.expireCookiesLocked()
	c.mu.Unlock()

	done(StatusUnknown, nil, userState, nil)
}

// Refresh synchronously mints a new access token from the session's refresh
// token. It reports whether a successful response was obtained. Intended for
// the resource-API collaborator reacting to an authorization failure; the
// caller is expected to already be off its main execution context. Returns
// false immediately when no refresh token is held or a login is in flight.
func (c *Client) Refresh(ctx context.Context) bool {
	refreshToken := c.sess.RefreshToken()
	if refreshToken == "" {
		return false
	}

	if !c.tryAcquireRequestGuard() {
		return false
	}
	defer c.releaseRequestGuard()
	gen := c.generation()

	scope := strings.Join(c.sess.Scopes(), oauthmodel.ScopeDelimiter)
	request := token.NewRefreshTokenRequest(c.httpClient, c.cfg.TokenURI, c.cfg.ClientID,
		refreshToken, scope)

	response, err := request.Execute(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("refresh failed on transport")
		return false
	}

	switch r := response.(type) {
	case *oauthmodel.SuccessfulResponse:
		return c.applySuccess(r, gen)
	case *oauthmodel.ErrorResponse:
		c.handleErrorResponse(r)
		return false
	}
	return false
}

// applySuccess loads the session from a successful exchange and persists
// any refresh token it carried. It reports false when a logout happened
// after the exchange started, in which case nothing is applied.
func (c *Client) applySuccess(response *oauthmodel.SuccessfulResponse, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.logoutGeneration {
		c.logger.Info().Msg("discarding token response that completed after logout")
		return false
	}

	c.sess.LoadFromResponse(response)

	if response.HasRefreshToken() {
		if err := c.prefsRepo.Put(prefs.RefreshTokenKey, response.RefreshToken); err != nil {
			c.logger.Warn().Err(err).Msg("failed to persist refresh token")
		}
	}
	return true
}

// handleErrorResponse applies the side effects of a server-reported error.
// invalid_grant means the stored refresh token is dead: it is purged so a
// later Initialize does not retry it forever.
func (c *Client) handleErrorResponse(response *oauthmodel.ErrorResponse) {
	if response.Err != oauthmodel.InvalidGrantError {
		return
	}
	if err := c.prefsRepo.Delete(prefs.RefreshTokenKey); err != nil {
		c.logger.Warn().Err(err).Msg("failed to purge dead refresh token")
		return
	}
	c.logger.Info().Msg("purged refresh token after invalid_grant")
}

func (c *Client) buildAuthorizeURL(scopes []string, state string) string {
	query := url.Values{}
	query.Set(oauthmodel.ResponseTypeParam, "code")
	query.Set(oauthmodel.ClientIDParam, c.cfg.ClientID)
	query.Set(oauthmodel.RedirectURIParam, c.cfg.RedirectURI)
	query.Set(oauthmodel.ScopeParam, strings.Join(scopes, oauthmodel.ScopeDelimiter))
	query.Set(oauthmodel.StateParam, state)

	return c.cfg.AuthorizeURI + "?" + query.Encode()
}

// expireCookiesLocked rewrites every stored cookie key with an expiry in the
// past, scoped to the logout host, forcing an embedded web view to drop it.
func (c *Client) expireCookiesLocked() {
	if c.cookies == nil {
		return
	}

	cookieKeys, ok, err := c.prefsRepo.Get(prefs.CookieKeysKey)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read stored cookie keys")
		return
	}
	if !ok || cookieKeys == "" {
		return
	}

	domain := ""
	if logoutURL, err := url.Parse(c.cfg.LogoutURI); err == nil {
		domain = logoutURL.Hostname()
	}

	for _, key := range strings.Split(cookieKeys, prefs.CookieKeyDelimiter) {
		if key == "" {
			continue
		}
		value := key + expiredCookieSuffix + domain + ";path=/;version=1"
		if err := c.cookies.SetCookie(c.cfg.LogoutURI, value); err != nil {
			c.logger.Warn().Err(err).Str("cookie", key).Msg("failed to expire cookie")
		}
	}
}

func (c *Client) tryAcquireRequestGuard() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.requestInFlight {
		return false
	}
	c.requestInFlight = true
	return true
}

func (c *Client) releaseRequestGuard() {
	c.mu.Lock()
	c.requestInFlight = false
	c.mu.Unlock()
}

func (c *Client) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logoutGeneration
}

func ensureDone(done CompletionFunc) CompletionFunc {
	if done == nil {
		return func(Status, *session.Session, any, error) {}
	}
	return done
}
