package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearConfigEnv(t *testing.T) {
	keys := []string{
		"DATABASE_URL", "PORT", "GO_ENV", "AUTH0_DOMAIN", "AUTH0_AUDIENCE",
		"AWS_REGION", "AWS_S3_BUCKET", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"RABBITMQ_URL", "ORDER_EXCHANGE", "ARCHIVE_AFTER_DAYS", "LOG_LEVEL",
	}
	for _, key := range keys {
		original := os.Getenv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if original != "" {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/suite_erp")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "suite.orders", cfg.OrderExchange)
	assert.Equal(t, 60, cfg.ArchiveAfterDays)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadArchiveHorizonOverride(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/suite_erp")
	os.Setenv("ARCHIVE_AFTER_DAYS", "90")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 90, cfg.ArchiveAfterDays)
}

func TestLoadRejectsNonPositiveHorizon(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/suite_erp")
	os.Setenv("ARCHIVE_AFTER_DAYS", "-5")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/suite_erp")
	os.Setenv("ARCHIVE_AFTER_DAYS", "soon")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 60, cfg.ArchiveAfterDays)
}

func TestGetConfigSingleton(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv("DATABASE_URL", "postgresql://localhost:5432/suite_erp")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Same(t, cfg, GetConfig())

	replacement := &Config{DatabaseURL: "other", ArchiveAfterDays: 10}
	SetConfig(replacement)
	assert.Same(t, replacement, GetConfig())
}
