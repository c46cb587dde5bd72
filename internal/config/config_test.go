package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DOCMAPPER_STORE", "DOCMAPPER_STORE_PATH", "DOCMAPPER_METADATA", "DOCMAPPER_LOG_LEVEL", "DOCMAPPER_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "docmapper.db", cfg.StorePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.Metadata)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DOCMAPPER_STORE", "sqlite")
	t.Setenv("DOCMAPPER_STORE_PATH", "/tmp/shop.db")
	t.Setenv("DOCMAPPER_METADATA", "shop.yaml")
	t.Setenv("DOCMAPPER_LOG_LEVEL", "debug")
	t.Setenv("DOCMAPPER_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		Store:     StoreSQLite,
		StorePath: "/tmp/shop.db",
		Metadata:  "shop.yaml",
		LogLevel:  "debug",
		LogFormat: "json",
	}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DOCMAPPER_STORE", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")

	t.Setenv("DOCMAPPER_STORE", "bolt")
	t.Setenv("DOCMAPPER_LOG_FORMAT", "xml")

	_, err = Load()
	assert.ErrorContains(t, err, "xml")
}
