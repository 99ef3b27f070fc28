package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded, when present, before reading the environment. Values
// already set in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays values from environment variables. Unparsable numeric
// or duration values are ignored and the previous value is kept.
//
//	HTTP_ADDR, DATABASE_DSN, JWT_SECRET, TOKEN_TTL, VERIFICATION_TTL,
//	BCRYPT_COST, BASE_URL, SMTP_HOST, AUTH_EMAIL, AUTH_PASS, MAIL_FROM,
//	MAIL_TIMEOUT, SEND_VERIFICATION_ON_SIGNUP, DEFAULT_PERMISSIONS, LOG_LEVEL,
//	CORS_ALLOWED_ORIGINS
//
// AUTH_EMAIL doubles as the sender address when MAIL_FROM is not set.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	envString(&config.SecretKey, "JWT_SECRET")
	envDuration(&config.SessionTokenValidityDuration, "TOKEN_TTL")
	envDuration(&config.VerificationTTL, "VERIFICATION_TTL")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.BaseURL, "BASE_URL")
	envString(&config.SMTPHost, "SMTP_HOST")
	envString(&config.SMTPUser, "AUTH_EMAIL")
	envString(&config.SMTPPassword, "AUTH_PASS")
	if v := os.Getenv("MAIL_FROM"); v != "" {
		config.MailFrom = v
	} else if v := os.Getenv("AUTH_EMAIL"); v != "" {
		config.MailFrom = v
	}
	envDuration(&config.MailTimeout, "MAIL_TIMEOUT")
	if v, err := strconv.ParseBool(os.Getenv("SEND_VERIFICATION_ON_SIGNUP")); err == nil {
		config.SendVerificationOnSignup = v
	}
	if v := os.Getenv("DEFAULT_PERMISSIONS"); v != "" {
		config.DefaultPermissions = splitList(v)
	}
	envString(&config.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		*dst = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
