// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server configures cmd/runner-server.
type Server struct {
	Port        int
	Store       string
	DataFile    string
	SQLitePath  string
	PostgresDSN string
}

// Addr is the listen address for Port.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Client configures the game.
type Client struct {
	APIURL      string
	LocalDBPath string
	// Seed makes every run reproducible when non-empty.
	Seed        string
	HTTPTimeout time.Duration
}

// LoadDotEnv loads files (".env" when none given) into the environment.
// Missing files are not an error; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// LoadServer reads the score service configuration.
func LoadServer() Server {
	return Server{
		Port:        envInt("PORT", 3000),
		Store:       strings.ToLower(envString("RUNNER_STORE", "file")),
		DataFile:    envString("RUNNER_DATA_FILE", filepath.Join("data", "scores.json")),
		SQLitePath:  envString("RUNNER_SQLITE_PATH", filepath.Join("data", "scores.db")),
		PostgresDSN: os.Getenv("RUNNER_POSTGRES_DSN"),
	}
}

// LoadClient reads the game configuration.
func LoadClient() Client {
	return Client{
		APIURL:      envString("RUNNER_API_URL", "http://localhost:3000"),
		LocalDBPath: envString("RUNNER_LOCAL_DB", defaultLocalDBPath()),
		Seed:        os.Getenv("RUNNER_SEED"),
		HTTPTimeout: time.Duration(envInt("RUNNER_HTTP_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

// defaultLocalDBPath keeps the local store under the user config dir,
// falling back to the working directory.
func defaultLocalDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "runner-local.db"
	}
	return filepath.Join(dir, "runner-go", "local.db")
}

func envString(k, def string) string {
	if s := strings.TrimSpace(os.Getenv(k)); s != "" {
		return s
	}
	return def
}

func envInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		var v int
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil && v > 0 {
			return v
		}
	}
	return def
}
