package fakeauthorizer

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-auth-client/auth/authui"
)

var _ authui.Authorizer = (*FakeAuthorizer)(nil)

// FakeAuthorizer is an authui.Authorizer for tests. It hands back a fixed
// code and echoes the state parameter from the authorize URL, the way a real
// authorization server would.
type FakeAuthorizer struct {
	Code string
	Err  error

	// State overrides the echoed state when set; leave empty to echo the
	// state from the URL.
	State string

	lock     sync.Mutex
	requests []string
	block    chan struct{}
}

func NewFakeAuthorizer(code string) *FakeAuthorizer {
	return &FakeAuthorizer{Code: code}
}

// BlockUntilReleased makes Authorize wait until Release is called, so tests
// can hold a login in flight.
func (fa *FakeAuthorizer) BlockUntilReleased() {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.block = make(chan struct{})
}

// Release unblocks a pending Authorize call.
func (fa *FakeAuthorizer) Release() {
	fa.lock.Lock()
	block := fa.block
	fa.block = nil
	fa.lock.Unlock()

	if block != nil {
		close(block)
	}
}

func (fa *FakeAuthorizer) Authorize(ctx context.Context, authorizeURL string) (string, string, error) {
	fa.lock.Lock()
	fa.requests = append(fa.requests, authorizeURL)
	block := fa.block
	fa.lock.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", "", ctx.Err()
		}
	}

	if fa.Err != nil {
		return "", "", fa.Err
	}

	state := fa.State
	if state == "" {
		if parsed, err := url.Parse(authorizeURL); err == nil {
			state = parsed.Query().Get("state")
		}
	}
	return fa.Code, state, nil
}

// Requests returns the authorize URLs seen so far.
func (fa *FakeAuthorizer) Requests() []string {
	fa.lock.Lock()
	defer fa.lock.Unlock()

	requests := make([]string, len(fa.requests))
	copy(requests, fa.requests)
	return requests
}
