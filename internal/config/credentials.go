package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

// keyringService namespaces our entries in the OS credential store.
const keyringService = "gomag-importer"

// ResolvePassword returns the Gomag password for the given username.
// The GOMAG_PASSWORD environment variable wins; otherwise the OS keyring is
// consulted. Returns "" when neither is set.
func ResolvePassword(username string) string {
	if v := os.Getenv("GOMAG_PASSWORD"); v != "" {
		return v
	}
	if username == "" {
		return ""
	}
	secret, err := keyring.Get(keyringService, username)
	if err != nil {
		log.Debug().Err(err).Str("user", username).Msg("No keyring entry for user")
		return ""
	}
	return secret
}

// StorePassword saves a password in the OS keyring.
func StorePassword(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if err := keyring.Set(keyringService, username, password); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}
	return nil
}

// DeletePassword removes a stored password. Missing entries are not an error.
func DeletePassword(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	err := keyring.Delete(keyringService, username)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
