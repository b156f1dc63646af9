package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/enroll/pkg/jwtx"
)

type Config struct {
	Issuer         string // Required: issuer claim for tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	SigningKeyFile string        // Optional: path to Ed25519 PEM; empty means ephemeral keys
	AccessTTL      time.Duration // Optional: access token lifetime (default: 24h)
	RenewalTTL     time.Duration // Optional: renewal token lifetime (default: 7 days)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./enroll.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	CORSOrigins          []string      // Optional: allowed browser origins, comma separated
	SecureCookies        bool          // Mark the renewal cookie Secure (default: true outside dev)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               os.Getenv("ENROLL_ISSUER"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		SigningKeyFile:       os.Getenv("ENROLL_SIGNING_KEY_FILE"),
		AccessTTL:            getEnvDurationOrDefault("ENROLL_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RenewalTTL:           getEnvDurationOrDefault("ENROLL_RENEWAL_TTL", jwtx.DefaultRenewalTokenTTL),
		DatabaseFile:         getEnvOrDefault("ENROLL_DATABASE_FILE", "enroll.db"),
		PepperFile:           getEnvOrDefault("ENROLL_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	cfg.SecureCookies = cfg.Env != "dev"
	if v := os.Getenv("ENROLL_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookies = b
		}
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "campuskit-enroll"
	}

	return cfg
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

	// Integer values are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
