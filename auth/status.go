package auth

// Status is the authentication status reported to completion callbacks.
type Status int

const (
	// StatusUnknown means no determination could be made: first run with no
	// persisted token, a failed silent refresh, or the state after logout.
	StatusUnknown Status = iota

	// StatusConnected means the session holds a usable access token.
	StatusConnected

	// StatusNotConnected means the user declined the authorization request.
	StatusNotConnected
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusNotConnected:
		return "not_connected"
	default:
		return "unknown"
	}
}
