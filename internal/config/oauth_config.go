package config

const (
	clientIDVar     = "OAUTH_CLIENT_ID"
	tokenURIVar     = "OAUTH_TOKEN_URI"
	authorizeURIVar = "OAUTH_AUTHORIZE_URI"
	logoutURIVar    = "OAUTH_LOGOUT_URI"
	redirectURIVar  = "OAUTH_REDIRECT_URI"
)

// Defaults point at the Microsoft Live connect endpoints. The desktop
// redirect URI is the out-of-band URI used when no web server receives the
// authorization response.
const (
	defaultTokenURI     = "https://login.live.com/oauth20_token.srf"
	defaultAuthorizeURI = "https://login.live.com/oauth20_authorize.srf"
	defaultLogoutURI    = "https://login.live.com/oauth20_logout.srf"
	defaultRedirectURI  = "https://login.live.com/oauth20_desktop.srf"
)

type OAuth struct {
	overrides fileValues
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetClientID() string {
	if o.overrides.ClientID != "" {
		return o.overrides.ClientID
	}
	return GetEnv(clientIDVar, "")
}

func (o OAuth) GetTokenURI() string {
	if o.overrides.TokenURI != "" {
		return o.overrides.TokenURI
	}
	return GetEnv(tokenURIVar, defaultTokenURI)
}

func (o OAuth) GetAuthorizeURI() string {
	if o.overrides.AuthorizeURI != "" {
		return o.overrides.AuthorizeURI
	}
	return GetEnv(authorizeURIVar, defaultAuthorizeURI)
}

func (o OAuth) GetLogoutURI() string {
	if o.overrides.LogoutURI != "" {
		return o.overrides.LogoutURI
	}
	return GetEnv(logoutURIVar, defaultLogoutURI)
}

func (o OAuth) GetRedirectURI() string {
	if o.overrides.RedirectURI != "" {
		return o.overrides.RedirectURI
	}
	return GetEnv(redirectURIVar, defaultRedirectURI)
}
