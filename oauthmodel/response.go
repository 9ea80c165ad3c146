package oauthmodel

import (
	"fmt"
	"strings"
)

// Response is the discriminated result of a token exchange. Exactly one of
// the two concrete variants is ever produced for a given exchange:
// *SuccessfulResponse or *ErrorResponse. Callers branch with a type switch;
// a missing optional field on a SuccessfulResponse is never ambiguous with
// an error.
type Response interface {
	isResponse()
}

// SuccessfulResponse represents a successful response from the token
// endpoint, as defined in RFC 6749 section 5.1.
type SuccessfulResponse struct {
	// AccessToken is the short-lived bearer credential issued by the server.
	// Required: Yes
	AccessToken string

	// TokenType indicates how the access token is used.
	// Required: Yes
	// Only "bearer" (case-insensitive on the wire) is accepted.
	TokenType TokenType

	// AuthenticationToken is an optional auxiliary identity token.
	// Required: No
	AuthenticationToken string

	// RefreshToken can be exchanged for new access tokens without user
	// interaction.
	// Required: No
	// A refresh-grant response frequently omits it; the previously issued
	// refresh token remains valid in that case.
	RefreshToken string

	// ExpiresIn is the lifetime in seconds of the access token. Nil when the
	// server did not send a usable value.
	// Required: No
	ExpiresIn *int

	// Scope is the space-delimited list of granted scopes.
	// Required: No
	Scope string
}

func (*SuccessfulResponse) isResponse() {}

// HasAuthenticationToken reports whether the response carried a non-empty
// authentication token.
func (r *SuccessfulResponse) HasAuthenticationToken() bool {
	return r.AuthenticationToken != ""
}

// HasRefreshToken reports whether the response carried a non-empty refresh
// token.
func (r *SuccessfulResponse) HasRefreshToken() bool {
	return r.RefreshToken != ""
}

// HasExpiresIn reports whether the response carried a usable expires_in.
func (r *SuccessfulResponse) HasExpiresIn() bool {
	return r.ExpiresIn != nil
}

// HasScope reports whether the response carried a non-empty scope list.
func (r *SuccessfulResponse) HasScope() bool {
	return r.Scope != ""
}

// Scopes splits the scope field into its individual scopes.
func (r *SuccessfulResponse) Scopes() []string {
	if r.Scope == "" {
		return nil
	}
	return strings.Split(r.Scope, ScopeDelimiter)
}

func (r *SuccessfulResponse) String() string {
	return fmt.Sprintf("SuccessfulResponse [accessToken=%s, tokenType=%s, hasRefreshToken=%t, scope=%s]",
		redact(r.AccessToken), r.TokenType, r.HasRefreshToken(), r.Scope)
}

// ErrorResponse represents an OAuth2 error response from the token endpoint,
// as defined in RFC 6749 section 5.2, or a client-side failure to parse what
// the server sent.
type ErrorResponse struct {
	// Err is the classified error code.
	// Required: Yes
	Err ErrorType

	// RawError preserves the error string exactly as it appeared on the
	// wire, so unrecognized codes are not lost by classification.
	RawError string

	// ErrorDescription is human-readable detail about the failure.
	// Required: No
	ErrorDescription string

	// ErrorURI points at a page with more information about the failure.
	// Required: No
	ErrorURI string
}

func (*ErrorResponse) isResponse() {}

func (r *ErrorResponse) String() string {
	return fmt.Sprintf("ErrorResponse [error=%s, errorDescription=%s, errorUri=%s]",
		r.RawError, r.ErrorDescription, r.ErrorURI)
}

// redact keeps enough of a token value to correlate log lines without
// disclosing the credential.
func redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
