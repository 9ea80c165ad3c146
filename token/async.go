package token

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/oauthmodel"
)

// DoneFunc receives the outcome of an asynchronous token exchange. Exactly
// one of response and err is non-nil.
type DoneFunc func(response oauthmodel.Response, err error)

// Async runs token requests off the caller's goroutine and guarantees the
// completion callback fires exactly once per request, even if the request
// produced neither a response nor an error.
type Async struct {
	logger zerolog.Logger
}

// AsyncOption modifies an Async instance.
type AsyncOption func(*Async)

// WithLogger sets the logger used for panic and no-result reports.
func WithLogger(logger zerolog.Logger) AsyncOption {
	return func(a *Async) {
		a.logger = logger
	}
}

// NewAsync creates an Async executor.
func NewAsync(options ...AsyncOption) *Async {
	a := &Async{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Do executes the request on a new goroutine and delivers the outcome to
// done on that goroutine. Callers needing a particular execution context for
// the callback marshal it themselves.
func (a *Async) Do(ctx context.Context, request *Request, done DoneFunc) {
	go func() {
		response, err := a.execute(ctx, request)

		if response == nil && err == nil {
			// done must always receive an outcome.
			a.logger.Error().Msg("token request produced neither response nor error")
			err = &TransportError{Cause: fmt.Errorf("token request produced no result")}
		}
		done(response, err)
	}()
}

func (a *Async) execute(ctx context.Context, request *Request) (response oauthmodel.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("token request panicked")
			response = nil
			err = &TransportError{Cause: fmt.Errorf("token request panicked: %v", r)}
		}
	}()
	return request.Execute(ctx)
}
