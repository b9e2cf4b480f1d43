package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads dotenv files from the working directory for APP_ENV
func LoadDotEnv() []string {
	return LoadDotEnvFrom(".", os.Getenv("APP_ENV"))
}

// LoadDotEnvFrom loads, in priority order, .env.<env>.local, .env.local,
// .env.<env> and .env from dir. godotenv never overwrites a variable that is
// already set, so the process environment wins and earlier files beat later
// ones. Returns the files actually loaded.
func LoadDotEnvFrom(dir, env string) []string {
	names := []string{".env.local", ".env"}
	if env != "" {
		names = []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"}
	}

	var loaded []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
