// Package authui is the seam between auth.Client and the interactive
// surfaces the embedding application supplies: the credential-collection UI
// of the authorization flow and the cookie store of any embedded web view.
package authui

import "context"

// Authorizer collects the user's consent for the interactive authorization
// flow. Implementations present authorizeURL (browser, embedded web view,
// console prompt) and block until the authorization response arrives, then
// return the authorization code together with the echoed state parameter.
type Authorizer interface {
	Authorize(ctx context.Context, authorizeURL string) (code, state string, err error)
}

// CookieStore lets logout expire cookies an embedded web view holds for the
// authorization server, so the next login prompts for credentials again.
type CookieStore interface {
	// SetCookie applies a Set-Cookie style value against the given URL.
	SetCookie(rawURL, cookie string) error
}
