package oauthmodel_test

import (
	"net/http"
	"testing"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/stretchr/testify/require"
)

func TestParseResponseSuccess(t *testing.T) {
	body := []byte(`{
		"access_token": "EwAoAq1D...",
		"token_type": "bearer",
		"authentication_token": "eyJhbGciOiJIUzI1NiJ9.e30.sig",
		"refresh_token": "CuZ7zt1D...",
		"expires_in": 3600,
		"scope": "onedrive.readwrite onedrive.appfolder"
	}`)

	resp, err := oauthmodel.ParseResponse(http.StatusOK, body)
	require.NoError(t, err)

	success, ok := resp.(*oauthmodel.SuccessfulResponse)
	require.True(t, ok)
	require.Equal(t, "EwAoAq1D...", success.AccessToken)
	require.Equal(t, oauthmodel.BearerTokenType, success.TokenType)
	require.True(t, success.HasAuthenticationToken())
	require.True(t, success.HasRefreshToken())
	require.True(t, success.HasExpiresIn())
	require.Equal(t, 3600, *success.ExpiresIn)
	require.Equal(t, []string{"onedrive.readwrite", "onedrive.appfolder"}, success.Scopes())
}

func TestParseResponseSuccessMinimal(t *testing.T) {
	resp, err := oauthmodel.ParseResponse(http.StatusOK, []byte(`{"access_token":"abc","token_type":"Bearer"}`))
	require.NoError(t, err)

	success, ok := resp.(*oauthmodel.SuccessfulResponse)
	require.True(t, ok)
	require.Equal(t, oauthmodel.BearerTokenType, success.TokenType, "token type is normalized to lower case")
	require.False(t, success.HasAuthenticationToken())
	require.False(t, success.HasRefreshToken())
	require.False(t, success.HasExpiresIn())
	require.False(t, success.HasScope())
	require.Nil(t, success.Scopes())
}

func TestParseResponseError(t *testing.T) {
	body := []byte(`{
		"error": "INVALID_GRANT",
		"error_description": "The provided grant is invalid",
		"error_uri": "https://example.com/errors/invalid_grant"
	}`)

	resp, err := oauthmodel.ParseResponse(http.StatusBadRequest, body)
	require.NoError(t, err)

	errResp, ok := resp.(*oauthmodel.ErrorResponse)
	require.True(t, ok)
	require.Equal(t, oauthmodel.InvalidGrantError, errResp.Err, "error codes are matched case-insensitively")
	require.Equal(t, "INVALID_GRANT", errResp.RawError)
	require.Equal(t, "The provided grant is invalid", errResp.ErrorDescription)
	require.Equal(t, "https://example.com/errors/invalid_grant", errResp.ErrorURI)
}

func TestParseResponseUnrecognizedErrorCode(t *testing.T) {
	resp, err := oauthmodel.ParseResponse(http.StatusBadRequest, []byte(`{"error":"rate_limited"}`))
	require.NoError(t, err)

	errResp, ok := resp.(*oauthmodel.ErrorResponse)
	require.True(t, ok)
	require.Equal(t, oauthmodel.OtherError, errResp.Err)
	require.Equal(t, "rate_limited", errResp.RawError)
}

func TestParseResponseErrorBodyWinsOverStatus(t *testing.T) {
	// The body discriminator decides the variant, not the HTTP status.
	resp, err := oauthmodel.ParseResponse(http.StatusOK, []byte(`{"error":"server_error"}`))
	require.NoError(t, err)
	require.IsType(t, &oauthmodel.ErrorResponse{}, resp)
}

func TestParseResponseRequiredFieldsAreStrict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"not json", `<html>502 Bad Gateway</html>`, oauthmodel.ErrMalformedResponse},
		{"neither discriminator", `{"foo":"bar"}`, oauthmodel.ErrMalformedResponse},
		{"empty access token", `{"access_token":"","token_type":"bearer"}`, oauthmodel.ErrMissingAccessToken},
		{"missing token type", `{"access_token":"abc"}`, oauthmodel.ErrMissingTokenType},
		{"unknown token type", `{"access_token":"abc","token_type":"mac"}`, oauthmodel.ErrUnknownTokenType},
		{"empty error code", `{"error":""}`, oauthmodel.ErrMissingErrorCode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := oauthmodel.ParseResponse(http.StatusOK, []byte(tc.body))
			require.Nil(t, resp)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseResponseExpiresInIsLenient(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *int
	}{
		{"numeric string", `{"access_token":"abc","token_type":"bearer","expires_in":"3600"}`, utils.Ptr(3600)},
		{"zero", `{"access_token":"abc","token_type":"bearer","expires_in":0}`, utils.Ptr(0)},
		{"negative dropped", `{"access_token":"abc","token_type":"bearer","expires_in":-1}`, nil},
		{"garbage dropped", `{"access_token":"abc","token_type":"bearer","expires_in":"soon"}`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := oauthmodel.ParseResponse(http.StatusOK, []byte(tc.body))
			require.NoError(t, err, "a bad expires_in must not fail the whole response")

			success, ok := resp.(*oauthmodel.SuccessfulResponse)
			require.True(t, ok)
			require.Equal(t, "abc", success.AccessToken, "other fields still populate")
			if tc.want == nil {
				require.False(t, success.HasExpiresIn())
			} else {
				require.True(t, success.HasExpiresIn())
				require.Equal(t, *tc.want, *success.ExpiresIn)
			}
		})
	}
}

func TestResponseStringRedactsTokens(t *testing.T) {
	success := &oauthmodel.SuccessfulResponse{
		AccessToken: "EwAoAq1DBAAUGCCXc8wU",
		TokenType:   oauthmodel.BearerTokenType,
	}
	require.NotContains(t, success.String(), "EwAoAq1DBAAUGCCXc8wU")
}
