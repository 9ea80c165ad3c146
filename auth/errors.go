package auth

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-auth-client/oauthmodel"
)

var (
	// ErrLoginInProgress is reported when a login or refresh is already in
	// flight. The new call fails fast instead of queuing or racing.
	ErrLoginInProgress = errors.New("another login operation is already in progress")
)

const (
	clientErrorDescription = "an error occurred on the client during the operation"
	serverErrorDescription = "an error occurred while communicating with the server during the operation"
)

// Error is the single failure shape surfaced by Client operations. Server
// errors, transport faults, and unparsable responses all arrive here so
// callers have one type to branch on, discriminated by Type.
type Error struct {
	// Type classifies the failure; transport and parse faults carry
	// oauthmodel.ClientError.
	Type oauthmodel.ErrorType

	// Description is human-readable detail, from the server when available.
	Description string

	// URI optionally points at more information about the failure.
	URI string

	cause error
}

func (e *Error) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("auth: %s: %s", e.Type, e.Description)
	}
	return fmt.Sprintf("auth: %s", e.Type)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func errorFromResponse(response *oauthmodel.ErrorResponse) *Error {
	return &Error{
		Type:        response.Err,
		Description: response.ErrorDescription,
		URI:         response.ErrorURI,
	}
}

func transportError(err error) *Error {
	return &Error{
		Type:        oauthmodel.ClientError,
		Description: serverErrorDescription,
		cause:       err,
	}
}

func clientError(err error) *Error {
	return &Error{
		Type:        oauthmodel.ClientError,
		Description: clientErrorDescription,
		cause:       err,
	}
}
