package config

type Config interface {
	EnvConfig
	OAuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetEnv() string
}

// OAuthConfig supplies the endpoints and client identity for talking to the
// authorization server.
type OAuthConfig interface {
	GetClientID() string
	GetTokenURI() string
	GetAuthorizeURI() string
	GetLogoutURI() string
	GetRedirectURI() string
}

type mainConfig struct {
	EnvVars
	OAuth
}

// New builds a Config from environment variables and defaults.
func New() Config {
	return mainConfig{}
}

// NewFromFile builds a Config whose OAuth values are overlaid from a TOML
// file; anything the file omits falls back to environment variables and
// defaults.
func NewFromFile(path string) (Config, error) {
	overrides, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return mainConfig{OAuth: OAuth{overrides: overrides}}, nil
}
