package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// fileValues are the OAuth settings a TOML config file may override.
type fileValues struct {
	ClientID     string `toml:"client_id"`
	TokenURI     string `toml:"token_uri"`
	AuthorizeURI string `toml:"authorize_uri"`
	LogoutURI    string `toml:"logout_uri"`
	RedirectURI  string `toml:"redirect_uri"`
}

func loadFile(path string) (fileValues, error) {
	var values fileValues
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fileValues{}, errors.Wrapf(err, "[config.loadFile] %s", path)
	}
	return values, nil
}
