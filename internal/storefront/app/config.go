package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret       string        // Required: HMAC signing secret for bearer tokens
	Issuer          string        // Optional: issuer claim for tokens (default: storefront)
	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 7 days)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 30 days)

	DatabaseFile string // Optional: path to SQLite database file (default: ./storefront.db)
	PepperFile   string // Optional: path to password pepper file (default: ./pepper)

	MailerDriver string // Optional: mail transport (smtp, log) (default: log)
	SMTPAddr     string // host:port of the SMTP relay (required for smtp driver)
	SMTPFrom     string // From address for outbound mail
	SMTPUsername string // Optional: SMTP AUTH username
	SMTPPassword string // Optional: SMTP AUTH password
	SMTPHost     string // Optional: hostname for SMTP AUTH (defaults from SMTPAddr)

	// AdminEmail/AdminPassword seed an admin record at startup when both are
	// set. Registration only ever creates user-role records.
	AdminEmail    string
	AdminPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:       os.Getenv("JWT_SECRET"),
		Issuer:          getEnvOrDefault("JWT_ISSUER", "storefront"),
		AccessTokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 0),
		RefreshTokenTTL: getEnvDurationOrDefault("REFRESH_TOKEN_TTL", 0),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "storefront.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		MailerDriver: getEnvOrDefault("MAILER_DRIVER", "log"),
		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@storefront.local"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPHost:     os.Getenv("SMTP_HOST"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
