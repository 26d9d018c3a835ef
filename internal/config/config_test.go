package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("MARKET_UPLOAD_DIR", "/tmp/markets")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "/tmp/markets", cfg.MarketUploadDir)
	})

	t.Run("Defaults when optional vars unset", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("MARKET_UPLOAD_DIR", "")
		t.Setenv("PRODUCT_UPLOAD_DIR", "")

		cfg := LoadConfig()

		assert.Equal(t, "uploads/markets", cfg.MarketUploadDir)
		assert.Equal(t, "uploads/products", cfg.ProductUploadDir)
	})
}
