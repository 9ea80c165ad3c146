package oauthmodel

import (
	"errors"
	"strings"
)

var (
	ErrMissingAccessToken = errors.New("response is missing access_token")
	ErrMissingTokenType   = errors.New("response is missing token_type")
	ErrMissingErrorCode   = errors.New("error response is missing error code")
	ErrUnknownTokenType   = errors.New("unknown token_type")
	ErrMalformedResponse  = errors.New("malformed token response body")
)

// ErrorType is the closed enumeration of OAuth2 error codes this client
// classifies. Codes arriving on the wire are matched case-insensitively;
// unrecognized codes fall into OtherError rather than failing parsing, with
// the original string preserved on ErrorResponse.RawError.
type ErrorType string

const (
	AccessDeniedError            ErrorType = "access_denied"
	InvalidClientError           ErrorType = "invalid_client"
	InvalidGrantError            ErrorType = "invalid_grant"
	InvalidRequestError          ErrorType = "invalid_request"
	InvalidScopeError            ErrorType = "invalid_scope"
	ServerErrorError             ErrorType = "server_error"
	TemporarilyUnavailableError  ErrorType = "temporarily_unavailable"
	UnauthorizedClientError      ErrorType = "unauthorized_client"
	UnsupportedGrantTypeError    ErrorType = "unsupported_grant_type"
	UnsupportedResponseTypeError ErrorType = "unsupported_response_type"

	// OtherError buckets server error codes outside the closed set.
	OtherError ErrorType = "other"

	// ClientError marks failures synthesized on the client side: transport
	// faults and unparsable server responses.
	ClientError ErrorType = "client_error"
)

var knownErrorTypes = map[string]ErrorType{
	string(AccessDeniedError):            AccessDeniedError,
	string(InvalidClientError):           InvalidClientError,
	string(InvalidGrantError):            InvalidGrantError,
	string(InvalidRequestError):          InvalidRequestError,
	string(InvalidScopeError):            InvalidScopeError,
	string(ServerErrorError):             ServerErrorError,
	string(TemporarilyUnavailableError):  TemporarilyUnavailableError,
	string(UnauthorizedClientError):      UnauthorizedClientError,
	string(UnsupportedGrantTypeError):    UnsupportedGrantTypeError,
	string(UnsupportedResponseTypeError): UnsupportedResponseTypeError,
}

// ErrorTypeFromString classifies a wire error code. Matching is
// case-insensitive and never fails: unrecognized codes map to OtherError.
func ErrorTypeFromString(code string) ErrorType {
	if et, ok := knownErrorTypes[strings.ToLower(code)]; ok {
		return et
	}
	return OtherError
}
