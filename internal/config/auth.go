package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvAuthEnabled   = "DOCKET_AUTH_ENABLED"
	EnvAuthIssuer    = "DOCKET_AUTH_ISSUER"
	EnvAuthClientID  = "DOCKET_AUTH_CLIENT_ID"
	EnvAuthFirmClaim = "DOCKET_AUTH_FIRM_CLAIM"
)

// AuthConfig holds OIDC bearer token verification settings. When disabled,
// requests pass through unauthenticated (local development).
type AuthConfig struct {
	Enabled   bool   `toml:"enabled"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	FirmClaim string `toml:"firm_claim"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.FirmClaim != "" {
		c.FirmClaim = overlay.FirmClaim
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.FirmClaim == "" {
		c.FirmClaim = "firm_id"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthClientID); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv(EnvAuthFirmClaim); v != "" {
		c.FirmClaim = v
	}
}

func (c *AuthConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("auth enabled but issuer is empty")
	}
	if c.ClientID == "" {
		return fmt.Errorf("auth enabled but client_id is empty")
	}
	return nil
}
