package token_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/oauthmodel"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/stretchr/testify/require"
)

type asyncOutcome struct {
	response oauthmodel.Response
	err      error
}

func TestAsyncDeliversResponse(t *testing.T) {
	endpoint := &tokenEndpoint{status: http.StatusOK, body: `{"access_token":"abc","token_type":"bearer"}`}
	server := httptest.NewServer(endpoint.handler())
	defer server.Close()

	request := token.NewRefreshTokenRequest(server.Client(), server.URL, testClientID, "refresh-1", "")

	outcomes := make(chan asyncOutcome, 1)
	token.NewAsync().Do(context.Background(), request, func(resp oauthmodel.Response, err error) {
		outcomes <- asyncOutcome{response: resp, err: err}
	})

	outcome := waitForOutcome(t, outcomes)
	require.NoError(t, outcome.err)
	require.IsType(t, &oauthmodel.SuccessfulResponse{}, outcome.response)
}

func TestAsyncDeliversTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	request := token.NewRefreshTokenRequest(http.DefaultClient, server.URL, testClientID, "refresh-1", "")

	outcomes := make(chan asyncOutcome, 1)
	token.NewAsync().Do(context.Background(), request, func(resp oauthmodel.Response, err error) {
		outcomes <- asyncOutcome{response: resp, err: err}
	})

	outcome := waitForOutcome(t, outcomes)
	require.Nil(t, outcome.response)

	var transportErr *token.TransportError
	require.ErrorAs(t, outcome.err, &transportErr)
}

func TestAsyncDeliversExactlyOnce(t *testing.T) {
	endpoint := &tokenEndpoint{status: http.StatusOK, body: `{"access_token":"abc","token_type":"bearer"}`}
	server := httptest.NewServer(endpoint.handler())
	defer server.Close()

	request := token.NewRefreshTokenRequest(server.Client(), server.URL, testClientID, "refresh-1", "")

	outcomes := make(chan asyncOutcome, 2)
	token.NewAsync().Do(context.Background(), request, func(resp oauthmodel.Response, err error) {
		outcomes <- asyncOutcome{response: resp, err: err}
	})

	waitForOutcome(t, outcomes)
	select {
	case <-outcomes:
		t.Fatal("completion callback fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func waitForOutcome(t *testing.T, outcomes <-chan asyncOutcome) asyncOutcome {
	t.Helper()
	select {
	case outcome := <-outcomes:
		return outcome
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for async completion")
		return asyncOutcome{}
	}
}
