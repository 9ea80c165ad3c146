package oauthmodel

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// wireResponse is the superset of fields a token endpoint may send, for
// either variant. Which variant applies is decided by the presence of the
// "error" and "access_token" discriminator fields.
type wireResponse struct {
	Error               *string         `json:"error"`
	ErrorDescription    string          `json:"error_description"`
	ErrorURI            string          `json:"error_uri"`
	AccessToken         *string         `json:"access_token"`
	TokenType           *string         `json:"token_type"`
	AuthenticationToken string          `json:"authentication_token"`
	RefreshToken        string          `json:"refresh_token"`
	ExpiresIn           json.RawMessage `json:"expires_in"`
	Scope               string          `json:"scope"`
}

// ParseResponse classifies a raw token endpoint response body into exactly
// one Response variant.
//
// Required fields are strict: a body with neither discriminator, a success
// body without access_token or token_type, or an unrecognized token_type all
// fail parsing. Optional fields are lenient: a malformed expires_in drops
// only that field and the rest of the response still populates.
//
// The HTTP status is advisory only; the body discriminators decide the
// variant, so a 200 carrying an error body still classifies as an error.
func ParseResponse(status int, body []byte) (Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.Wrapf(ErrMalformedResponse, "[ParseResponse] status %d: %v", status, err)
	}

	if wire.Error != nil {
		return parseErrorResponse(&wire)
	}
	if wire.AccessToken != nil {
		return parseSuccessfulResponse(&wire)
	}

	return nil, errors.Wrapf(ErrMalformedResponse, "[ParseResponse] status %d: no error or access_token field", status)
}

func parseErrorResponse(wire *wireResponse) (Response, error) {
	if *wire.Error == "" {
		return nil, errors.Wrap(ErrMissingErrorCode, "[ParseResponse]")
	}
	return &ErrorResponse{
		Err:              ErrorTypeFromString(*wire.Error),
		RawError:         *wire.Error,
		ErrorDescription: wire.ErrorDescription,
		ErrorURI:         wire.ErrorURI,
	}, nil
}

func parseSuccessfulResponse(wire *wireResponse) (Response, error) {
	if *wire.AccessToken == "" {
		return nil, errors.Wrap(ErrMissingAccessToken, "[ParseResponse]")
	}
	if wire.TokenType == nil || *wire.TokenType == "" {
		return nil, errors.Wrap(ErrMissingTokenType, "[ParseResponse]")
	}

	tokenType := TokenType(strings.ToLower(*wire.TokenType))
	if tokenType != BearerTokenType {
		return nil, errors.Wrapf(ErrUnknownTokenType, "[ParseResponse] %q", *wire.TokenType)
	}

	return &SuccessfulResponse{
		AccessToken:         *wire.AccessToken,
		TokenType:           tokenType,
		AuthenticationToken: wire.AuthenticationToken,
		RefreshToken:        wire.RefreshToken,
		ExpiresIn:           parseExpiresIn(wire.ExpiresIn),
		Scope:               wire.Scope,
	}, nil
}

// parseExpiresIn accepts expires_in as a JSON number or a numeric string
// (both appear in the wild). Anything else, or a negative value, drops the
// field.
func parseExpiresIn(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	text := strings.Trim(string(raw), `"`)
	secs, err := strconv.Atoi(text)
	if err != nil || secs < 0 {
		return nil
	}
	return &secs
}
