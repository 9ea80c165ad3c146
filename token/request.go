// Package token builds and executes single OAuth2 token exchanges against a
// remote token endpoint, for the authorization-code and refresh-token
// grants.
package token

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-auth-client/oauthmodel"
)

// maxResponseBytes caps how much of a token response body is read.
const maxResponseBytes = 1 << 20

const clientParseErrorDescription = "an error occurred on the client during the operation"

// Request is one prepared token exchange. Construct with
// NewAccessTokenRequest or NewRefreshTokenRequest, then call Execute.
type Request struct {
	httpClient *http.Client
	tokenURI   string
	form       url.Values
}

// NewAccessTokenRequest prepares an authorization-code grant: it exchanges
// the code produced by the interactive authorization flow for tokens.
func NewAccessTokenRequest(httpClient *http.Client, tokenURI, clientID, redirectURI, code string) *Request {
	form := url.Values{}
	form.Set(oauthmodel.GrantTypeParam, string(oauthmodel.AuthorizationCodeGrant))
	form.Set(oauthmodel.ClientIDParam, clientID)
	form.Set(oauthmodel.CodeParam, code)
	form.Set(oauthmodel.RedirectURIParam, redirectURI)

	return newRequest(httpClient, tokenURI, form)
}

// NewRefreshTokenRequest prepares a refresh-token grant: it mints a new
// access token from the long-lived refresh token without user interaction.
func NewRefreshTokenRequest(httpClient *http.Client, tokenURI, clientID, refreshToken, scope string) *Request {
	form := url.Values{}
	form.Set(oauthmodel.GrantTypeParam, string(oauthmodel.RefreshTokenGrant))
	form.Set(oauthmodel.ClientIDParam, clientID)
	form.Set(oauthmodel.RefreshTokenParam, refreshToken)
	form.Set(oauthmodel.ScopeParam, scope)

	return newRequest(httpClient, tokenURI, form)
}

func newRequest(httpClient *http.Client, tokenURI string, form url.Values) *Request {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Request{
		httpClient: httpClient,
		tokenURI:   tokenURI,
		form:       form,
	}
}

// GrantType returns the grant this request performs.
func (r *Request) GrantType() oauthmodel.GrantType {
	return oauthmodel.GrantType(r.form.Get(oauthmodel.GrantTypeParam))
}

// Execute POSTs the form-encoded exchange and classifies the result. Server
// errors and unparsable bodies return an *oauthmodel.ErrorResponse, never an
// error; the returned error is always a *TransportError when non-nil.
func (r *Request) Execute(ctx context.Context) (oauthmodel.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURI, strings.NewReader(r.form.Encode()))
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	parsed, err := oauthmodel.ParseResponse(resp.StatusCode, body)
	if err != nil {
		// An HTTP response was obtained but could not be understood. That is
		// a client parse failure, reported on the same path as a server
		// error so callers have one failure shape to branch on.
		return &oauthmodel.ErrorResponse{
			Err:              oauthmodel.ClientError,
			RawError:         string(oauthmodel.ClientError),
			ErrorDescription: clientParseErrorDescription,
		}, nil
	}
	return parsed, nil
}
