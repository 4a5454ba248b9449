package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"doucetentation/internal/gloria"
	"doucetentation/internal/models"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, gloria.DefaultAPIURL, cfg.Gloria.APIURL)
	assert.Equal(t, "2", cfg.Gloria.APIVersion)
	assert.Equal(t, time.Minute, cfg.Interval())
	assert.Equal(t, 5*time.Second, cfg.InitialDelay())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, models.SourceGloriaCake, cfg.Source())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
gloriafood:
  channel: snack
polling:
  interval_seconds: 120
classifier:
  savory_keywords: [empanada]
log_level: debug
`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, models.SourceGloriaSnack, cfg.Source())
	assert.Equal(t, 2*time.Minute, cfg.Interval())
	assert.Equal(t, []string{"empanada"}, cfg.Classifier.SavoryKeywords)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched sections keep their defaults.
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GLORIAFOOD_API_KEY", "env-key")
	t.Setenv("DATABASE_DSN", "/data/orders.db")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gloria.APIKey)
	assert.Equal(t, "/data/orders.db", cfg.Database.DSN)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
