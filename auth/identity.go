package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity decodes the session's authentication token into its claims. The
// token is an auxiliary identity artifact issued alongside the access token;
// it is decoded without signature verification, so treat the claims as
// informational only. Returns nil when no token is held or it is not a JWT.
func (c *Client) Identity() jwt.MapClaims {
	raw := c.sess.AuthenticationToken()
	if raw == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		c.logger.Debug().Err(err).Msg("authentication token is not a decodable JWT")
		return nil
	}
	return claims
}
