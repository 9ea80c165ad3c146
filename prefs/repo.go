// Package prefs is the durable key/value store an auth client uses for
// silent re-authentication across process restarts. It holds one refresh
// token and a small cookie-key list under a single fixed namespace.
package prefs

// Namespace is the fixed preference-file identity every key lives under.
const Namespace = "com.jrsteele09.authclient"

// Keys used by auth.Client.
const (
	// RefreshTokenKey stores the long-lived refresh token.
	RefreshTokenKey = "refresh_token"

	// CookieKeysKey stores the delimiter-joined names of the cookies an
	// embedded web view set during interactive login.
	CookieKeysKey = "cookies"
)

// CookieKeyDelimiter joins the individual cookie names under CookieKeysKey.
const CookieKeyDelimiter = ","

// Repo is a durable key/value mapping. Implementations must survive process
// restart; write atomicity per key is the only concurrency guarantee callers
// rely on.
type Repo interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)

	// Put stores value under key, overwriting any previous value.
	Put(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
