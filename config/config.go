package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort    = 8080
	defaultKFactor       = 32
	defaultInitialRating = 1000
)

// Config holds every setting of the service.
type Config struct {
	DatabaseURL           string
	JWTSecretKey          string
	ServerPort            int
	OrganizerPasswordHash string

	EloKFactor       int
	EloDefaultRating int

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:           getenv("DATABASE_URL"),
		JWTSecretKey:          getenv("JWT_SECRET_KEY"),
		OrganizerPasswordHash: getenv("ORGANIZER_PASSWORD_HASH"),
		R2AccountID:           getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       getenv("R2_PUBLIC_BASE_URL"),
	}

	for name, value := range map[string]string{
		"DATABASE_URL":            cfg.DatabaseURL,
		"JWT_SECRET_KEY":          cfg.JWTSecretKey,
		"ORGANIZER_PASSWORD_HASH": cfg.OrganizerPasswordHash,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}

	var err error
	if cfg.ServerPort, err = intVar(getenv, "SERVER_PORT", defaultServerPort); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.EloKFactor, err = intVar(getenv, "ELO_K_FACTOR", defaultKFactor); err != nil {
		return nil, err
	}
	if cfg.EloKFactor <= 0 {
		return nil, fmt.Errorf("ELO_K_FACTOR must be positive, got %d", cfg.EloKFactor)
	}
	if cfg.EloDefaultRating, err = intVar(getenv, "ELO_DEFAULT_RATING", defaultInitialRating); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if origins := getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}

func intVar(getenv func(string) string, name string, fallback int) (int, error) {
	raw := getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}
