package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "embedded", cfg.Dataset.Bundle.Source)
	assert.Equal(t, "file", cfg.Override.Driver)
	assert.Equal(t, "emoji_db_csv", cfg.Override.Slot)
	assert.Equal(t, 1024, cfg.Render.CanvasSize)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: production
server:
  port: 9000
override:
  driver: database
  slot: emoji_db_csv
site:
  base_url: https://emojitopng.com
`)
	t.Setenv("PORT", "9100")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("RENDER_FONTS", "/a.ttf, /b.ttf,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "database", cfg.Override.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"/a.ttf", "/b.ttf"}, cfg.Render.Fonts)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown override driver", "override:\n  driver: s3\n"},
		{"file bundle without path", "dataset:\n  bundle:\n    source: file\n"},
		{"bad yaml", "server: [\n"},
		{"storage without bucket", "storage:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 3306, User: "u", Password: "p", DBName: "emoji"}
	assert.Equal(t, "u:p@tcp(h:3306)/emoji?charset=utf8mb4&parseTime=True&loc=Local", d.GetDSN())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("secret"))
}
