package oauthmodel

// GrantType identifies the OAuth2 token exchange being performed.
// Determines which grant-specific parameters a token request must carry.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used after the interactive authorization flow has produced a code.
	// Required parameters: client_id, code, redirect_uri
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant mints a new access token from a refresh token.
	// Used for silent re-authentication, no user interaction required.
	// Required parameters: client_id, refresh_token, scope
	RefreshTokenGrant GrantType = "refresh_token"
)

// TokenType is the type of an issued access token.
// The set of recognized values is closed: an unrecognized token type in a
// token response fails parsing rather than being silently accepted.
type TokenType string

const (
	// BearerTokenType is the only token type this client understands.
	// Usage: "Authorization: bearer <access_token>" on resource requests.
	BearerTokenType TokenType = "bearer"
)

// Form parameter and JSON field names used on the token endpoint wire.
const (
	AccessTokenParam         = "access_token"
	AuthenticationTokenParam = "authentication_token"
	ClientIDParam            = "client_id"
	CodeParam                = "code"
	ErrorParam               = "error"
	ErrorDescriptionParam    = "error_description"
	ErrorURIParam            = "error_uri"
	ExpiresInParam           = "expires_in"
	GrantTypeParam           = "grant_type"
	RedirectURIParam         = "redirect_uri"
	RefreshTokenParam        = "refresh_token"
	ResponseTypeParam        = "response_type"
	ScopeParam               = "scope"
	StateParam               = "state"
	TokenTypeParam           = "token_type"
)

// ScopeDelimiter separates individual scopes inside the "scope" field.
const ScopeDelimiter = " "
