package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables carrying the secret tokens. Tokens live in the
// environment (or a local .env) rather than the YAML config so the config
// file can be committed.
const (
	// WaniKaniTokenEnv holds the WaniKani API v2 personal access token.
	WaniKaniTokenEnv = "WANIKANI_API_TOKEN"

	// NHKTokenEnv holds the z_at cookie value for authenticated NHK
	// requests.
	NHKTokenEnv = "NHK_Z_AT_TOKEN" //nolint:gosec // Environment variable name, not a credential
)

// ApplyEnv loads a local .env file if present and overlays the token
// environment variables onto the config. Environment values win over
// config-file values; a missing .env is not an error.
func ApplyEnv(cfg *Config) {
	// godotenv.Load never overwrites variables already set in the
	// environment, so real environment values keep priority over .env.
	_ = godotenv.Load() //nolint:errcheck // Missing .env is the common case

	if token := os.Getenv(WaniKaniTokenEnv); token != "" {
		cfg.WaniKaniToken = token
	}
	if token := os.Getenv(NHKTokenEnv); token != "" {
		cfg.NHKToken = token
	}
}
