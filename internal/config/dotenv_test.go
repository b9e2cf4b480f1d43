package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnvFrom_Priority(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write(".env", "EMOJI_DOTENV_A=base\nEMOJI_DOTENV_B=base\nEMOJI_DOTENV_C=base\n")
	write(".env.local", "EMOJI_DOTENV_B=local\n")
	write(".env.production", "EMOJI_DOTENV_A=prod\nEMOJI_DOTENV_B=prod\n")

	for _, k := range []string{"EMOJI_DOTENV_A", "EMOJI_DOTENV_B", "EMOJI_DOTENV_C"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("EMOJI_DOTENV_C", "process")

	loaded := LoadDotEnvFrom(dir, "production")

	assert.Equal(t, []string{
		filepath.Join(dir, ".env.local"),
		filepath.Join(dir, ".env.production"),
		filepath.Join(dir, ".env"),
	}, loaded)
	assert.Equal(t, "prod", os.Getenv("EMOJI_DOTENV_A"))
	assert.Equal(t, "local", os.Getenv("EMOJI_DOTENV_B"))
	assert.Equal(t, "process", os.Getenv("EMOJI_DOTENV_C"))
}

func TestLoadDotEnvFrom_NothingToLoad(t *testing.T) {
	assert.Empty(t, LoadDotEnvFrom(t.TempDir(), ""))
}
