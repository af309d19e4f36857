package cds

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	rc := filepath.Join(dir, "cdsapirc")
	require.NoError(t, os.WriteFile(rc, []byte("url: https://example.org/api/v2\nkey: 123:secret\nverify: 0\n"), 0o600))

	t.Run("reads the rc file", func(t *testing.T) {
		t.Setenv(EnvKey, "")
		t.Setenv(EnvURL, "")
		cfg := DefaultConfig()
		require.NoError(t, LoadCredentials(&cfg, "", rc))
		assert.Equal(t, "123:secret", cfg.Key)
		assert.Equal(t, "https://example.org/api/v2", cfg.URL)
	})

	t.Run("environment wins over the rc file", func(t *testing.T) {
		t.Setenv(EnvKey, "456:other")
		t.Setenv(EnvURL, "")
		cfg := DefaultConfig()
		require.NoError(t, LoadCredentials(&cfg, "", rc))
		assert.Equal(t, "456:other", cfg.Key)
		assert.Equal(t, DefaultURL, cfg.URL)
	})

	t.Run("loads the env file", func(t *testing.T) {
		t.Setenv(EnvKey, "")
		t.Setenv(EnvURL, "")
		os.Unsetenv(EnvKey)
		os.Unsetenv(EnvURL)
		env := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(env, []byte("CDSAPI_KEY=789:dotenv\nCDSAPI_URL=https://env.example.org/api\n"), 0o600))
		cfg := DefaultConfig()
		require.NoError(t, LoadCredentials(&cfg, env, rc))
		assert.Equal(t, "789:dotenv", cfg.Key)
		assert.Equal(t, "https://env.example.org/api", cfg.URL)
	})

	t.Run("explicit key is kept", func(t *testing.T) {
		t.Setenv(EnvKey, "456:other")
		cfg := DefaultConfig()
		cfg.Key = "1:flag"
		require.NoError(t, LoadCredentials(&cfg, filepath.Join(dir, "missing.env"), rc))
		assert.Equal(t, "1:flag", cfg.Key)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv(EnvKey, "")
		cfg := DefaultConfig()
		err := LoadCredentials(&cfg, "", filepath.Join(dir, "missing"))
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})
}
