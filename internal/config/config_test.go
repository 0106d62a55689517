package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DB_USER", "expeditoe")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "expeditoe")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL", "noreply@example.com")
	t.Setenv("EMAIL_PASSWORD", "mailpass")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "jwt", cfg.Auth.TokenProvider)
	assert.Equal(t, time.Duration(0), cfg.Auth.AccessTokenDuration)
	assert.Equal(t, "587", cfg.Email.SMTPPort)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_MissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET")
}

func TestLoad_MissingDatabaseParams(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoad_PasetoRequires32ByteSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_PROVIDER", "paseto")
	t.Setenv("SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")

	t.Setenv("SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "paseto", cfg.Auth.TokenProvider)
}

func TestLoad_UnknownTokenProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_PROVIDER", "oauth")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_PROVIDER")
}

func TestLoad_DurationsInSeconds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_DURATION", "3600")
	t.Setenv("SERVER_READ_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_TrustedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRUSTED_ORIGINS", "https://expeditoe.com, https://admin.expeditoe.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"https://expeditoe.com", "https://admin.expeditoe.com"},
		cfg.Server.TrustedOrigins,
	)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=n sslmode=disable",
		cfg.ConnectionString(),
	)
}
