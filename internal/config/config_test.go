package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrepages/diary-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_USER", "diary")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_NAME", "entrepages")
	t.Setenv("API_KEY", "k")

	cfg := config.Load()
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, "k", cfg.APIKey)
	require.False(t, cfg.Consul.Enabled)
	require.Equal(t,
		"user=diary password=secret host=localhost port=5432 dbname=entrepages sslmode=disable",
		cfg.DB.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("UPLOAD_DIR", "/var/lib/diary/uploads")
	t.Setenv("CONSUL_REGISTER", "true")

	cfg := config.Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "/var/lib/diary/uploads", cfg.UploadDir)
	require.True(t, cfg.Consul.Enabled)
}
