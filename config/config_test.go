package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":            "postgres://localhost/engine",
		"JWT_SECRET_KEY":          "secret",
		"ORGANIZER_PASSWORD_HASH": "$2a$10$abc",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromEnv(envOf(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 32, cfg.EloKFactor)
	assert.Equal(t, 1000, cfg.EloDefaultRating)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.R2BucketName)
}

func TestFromEnvOverrides(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9090"
	env["ELO_K_FACTOR"] = "24"
	env["ELO_DEFAULT_RATING"] = "1500"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example,"

	cfg, err := fromEnv(envOf(env))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 24, cfg.EloKFactor)
	assert.Equal(t, 1500, cfg.EloDefaultRating)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvRejections(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "missing database", key: "DATABASE_URL", value: ""},
		{name: "missing jwt secret", key: "JWT_SECRET_KEY", value: ""},
		{name: "missing organizer hash", key: "ORGANIZER_PASSWORD_HASH", value: ""},
		{name: "port not a number", key: "SERVER_PORT", value: "http"},
		{name: "port out of range", key: "SERVER_PORT", value: "70000"},
		{name: "zero k factor", key: "ELO_K_FACTOR", value: "0"},
		{name: "bad rating", key: "ELO_DEFAULT_RATING", value: "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.key] = tt.value
			_, err := fromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
