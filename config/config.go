// Package config loads the TOML configuration file naming the Xero
// credentials, endpoints and refresh-token file used by
// xero-invoicing.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Xero is the [xero] table of the configuration file. All values are
// strings. The endpoint urls may be left empty, in which case the
// Xero production endpoints are used; an empty state means a random
// state is generated per run.
type Xero struct {
	ClientID         string `toml:"client_id"`
	ClientSecret     string `toml:"client_secret"`
	AuthorizationURL string `toml:"authorization_url"`
	TokenURL         string `toml:"token_url"`
	TenantURL        string `toml:"tenant_url"`
	RevocationURL    string `toml:"revocation_url"`
	RedirectURL      string `toml:"redirect_url"`
	Scope            string `toml:"scope"`
	State            string `toml:"state"`
	RefreshTokenFile string `toml:"refresh_token_file"`
}

// file is the top level of the configuration file
type file struct {
	Xero Xero `toml:"xero"`
}

// Load reads the configuration file at path and returns its [xero]
// table
func Load(path string) (Xero, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Xero{}, fmt.Errorf("could not load config %s: %w", path, err)
	}
	if !md.IsDefined("xero") {
		return Xero{}, fmt.Errorf("config %s has no [xero] table", path)
	}
	return f.Xero, nil
}
