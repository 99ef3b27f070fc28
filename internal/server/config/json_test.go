package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http":              "www.example:9000",
			"database_dsn":                    "postgres://db",
			"secret_key":                      "my_secret_key",
			"session_token_validity_duration": "12h",
			"verification_ttl":                "24h",
			"bcrypt_cost":                     11,
			"base_url":                        "https://auth.example.com",
			"smtp_host":                       "smtp.example.com:465",
			"smtp_user":                       "user",
			"smtp_password":                   "password",
			"mail_from":                       "no-reply@example.com",
			"mail_timeout":                    "5s",
			"send_verification_on_signup":     false,
			"default_permissions":             []string{"user", "beta"},
			"log_level":                       "warn",
			"cors_allowed_origins":            []string{"https://app.example.com"},
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 12*time.Hour, cfg.SessionTokenValidityDuration)
		assert.Equal(t, 24*time.Hour, cfg.VerificationTTL)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "https://auth.example.com", cfg.BaseURL)
		assert.Equal(t, "smtp.example.com:465", cfg.SMTPHost)
		assert.Equal(t, "user", cfg.SMTPUser)
		assert.Equal(t, "password", cfg.SMTPPassword)
		assert.Equal(t, "no-reply@example.com", cfg.MailFrom)
		assert.Equal(t, 5*time.Second, cfg.MailTimeout)
		assert.False(t, cfg.SendVerificationOnSignup)
		assert.Equal(t, []string{"user", "beta"}, cfg.DefaultPermissions)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"secret_key": "only-this"})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "only-this", cfg.SecretKey)
		assert.Equal(t, ":4000", cfg.EndpointAddrHTTP)
		assert.Equal(t, 6*time.Hour, cfg.VerificationTTL)
		assert.True(t, cfg.SendVerificationOnSignup)
	})

	t.Run("empty dsn selects memory store", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"database_dsn": ""})
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Empty(t, cfg.DatabaseDSN)
	})

	t.Run("no config flag leaves config alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{SecretKey: "key", EndpointAddrHTTP: "defaults:1234"}
		parseJson(cfg)

		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
