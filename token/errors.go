package token

import "fmt"

// TransportError reports that no HTTP response was obtained from the token
// endpoint: the network was unreachable, the TLS handshake failed, or the
// response body could not be read. It is the only failure Execute raises;
// server-reported errors and unparsable bodies come back as an
// oauthmodel.ErrorResponse instead.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("token request transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
