package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PRODUCT_SERVICE_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.ProductSvcAddr)
	assert.Equal(t, ":8082", cfg.OrderSvcAddr)
	assert.Equal(t, "redis", cfg.CartStore)
	assert.Equal(t, time.Duration(0), cfg.CartTTL)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
order_service_addr: ":9999"
cart_store: memory
log_level: debug
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.OrderSvcAddr)
	assert.Equal(t, "memory", cfg.CartStore)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadBadValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CART_TTL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CART_TTL", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
