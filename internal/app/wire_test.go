package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/emojitopng/emojitopng-backend/internal/config"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/emojitopng/emojitopng-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Override.Path = filepath.Join(t.TempDir(), "emoji_db_csv.csv")
	return cfg
}

func TestNew_DefaultsServeEmbeddedBundle(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	snap := a.Catalog.Reload(context.Background())
	assert.Equal(t, domain.SourceBundle, snap.Source)
	assert.NotEmpty(t, snap.Records)
	assert.Empty(t, snap.Skipped)
	assert.Nil(t, a.DB)
	assert.Nil(t, a.Redis)
	// no fonts configured
	assert.False(t, a.Render.Available())
}

func TestNewOverrideRepository(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewOverrideRepository(cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.FileOverrideRepository{}, repo)

	cfg.Override.Driver = "database"
	_, err = NewOverrideRepository(cfg, nil, nil)
	assert.Error(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	repo, err = NewOverrideRepository(cfg, db, nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.DBOverrideRepository{}, repo)
	assert.True(t, db.Migrator().HasTable(&domain.DatasetOverride{}))

	cfg.Override.Driver = "redis"
	_, err = NewOverrideRepository(cfg, nil, nil)
	assert.Error(t, err)

	cfg.Override.Driver = "ftp"
	_, err = NewOverrideRepository(cfg, nil, nil)
	assert.Error(t, err)
}

func TestNewBundleSource(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		source  string
		want    interface{}
		wantErr bool
	}{
		{"embedded", &repository.EmbeddedBundle{}, false},
		{"file", &repository.FileBundle{}, false},
		{"http", &repository.HTTPBundle{}, false},
		{"s3", nil, true}, // storage disabled
		{"gopher", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			cfg.Dataset.Bundle.Source = tt.source
			src, err := NewBundleSource(cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}
