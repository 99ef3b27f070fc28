package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either strings such as "6h" or integer nanoseconds. Pointer fields keep
// "absent" apart from "false"/"0".
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string        `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
	VerificationTTL              timex.Duration `json:"verification_ttl"`
	BcryptCost                   int            `json:"bcrypt_cost"`
	BaseURL                      string         `json:"base_url"`
	SMTPHost                     string         `json:"smtp_host"`
	SMTPUser                     string         `json:"smtp_user"`
	SMTPPassword                 string         `json:"smtp_password"`
	MailFrom                     string         `json:"mail_from"`
	MailTimeout                  timex.Duration `json:"mail_timeout"`
	SendVerificationOnSignup     *bool          `json:"send_verification_on_signup"`
	DefaultPermissions           []string       `json:"default_permissions"`
	LogLevel                     string         `json:"log_level"`
	CORSAllowedOrigins           []string       `json:"cors_allowed_origins"`
}

// parseJson overlays values from the file named by -c/-config. Only fields
// present in the file replace what is already in config. A missing or
// malformed file is fatal and panics.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.VerificationTTL.Duration != 0 {
		config.VerificationTTL = c.VerificationTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	if c.MailTimeout.Duration != 0 {
		config.MailTimeout = c.MailTimeout.Duration
	}
	if c.SendVerificationOnSignup != nil {
		config.SendVerificationOnSignup = *c.SendVerificationOnSignup
	}
	if len(c.DefaultPermissions) > 0 {
		config.DefaultPermissions = c.DefaultPermissions
	}
	setString(&config.LogLevel, c.LogLevel)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
