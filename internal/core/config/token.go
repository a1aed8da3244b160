package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name used in the system keyring.
const keyringService = "bluelight"

var (
	// ErrMissingToken is returned when no Airtable token is configured.
	ErrMissingToken = errors.New("airtable token not set")
	// ErrKeyringUnavailable indicates the system keyring could not be used.
	ErrKeyringUnavailable = errors.New("system keyring unavailable")
)

// Token returns the Airtable personal access token. The env var named by
// airtable.token_env wins; otherwise the token stored for this base in the
// system keyring is used.
func (c *Config) Token() (string, error) {
	if tok := os.Getenv(c.Airtable.TokenEnv); tok != "" {
		return tok, nil
	}

	tok, err := keyring.Get(keyringService, c.keyringUser())
	if err == nil && tok != "" {
		return tok, nil
	}

	return "", fmt.Errorf("%w: export %s or store it with 'bluelight init'", ErrMissingToken, c.Airtable.TokenEnv)
}

// StoreToken saves token in the system keyring for this base.
func (c *Config) StoreToken(token string) error {
	if err := keyring.Set(keyringService, c.keyringUser(), token); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

func (c *Config) keyringUser() string {
	if c.Airtable.BaseID == "" {
		return "airtable"
	}
	return "airtable:" + c.Airtable.BaseID
}
