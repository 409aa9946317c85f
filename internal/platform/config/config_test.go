package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
mode: release
database:
  driver: sqlite3
  path: /tmp/library.db
loans:
  late_after_days: 7
auth:
  enabled: true
  jwt_secret: s3cret
  token_ttl: 2h
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ModeRelease, cfg.Mode)
	assert.Equal(t, "sqlite3", cfg.DB.Driver)
	assert.Equal(t, 7, cfg.Loans.LateAfterDays)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	// 未指定のキーは既定値のまま
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mysql
  dbname: library
  password: from-file
`)
	t.Setenv("LIBRARY_DB_PASSWORD", "from-env")
	t.Setenv("LIBRARY_LATE_AFTER_DAYS", "10")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.DB.Password)
	assert.Equal(t, 10, cfg.Loans.LateAfterDays)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with dbname", func(c *Config) { c.DB.DBName = "library" }, false},
		{"unknown mode", func(c *Config) { c.DB.DBName = "library"; c.Mode = "staging" }, true},
		{"unknown driver", func(c *Config) { c.DB.Driver = "oracle" }, true},
		{"sqlite without path", func(c *Config) { c.DB.Driver = "sqlite3" }, true},
		{"negative threshold", func(c *Config) { c.DB.DBName = "library"; c.Loans.LateAfterDays = -1 }, true},
		{"auth without secret", func(c *Config) { c.DB.DBName = "library"; c.Auth.Enabled = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
