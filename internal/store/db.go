// Package store persists the score service's leaderboard. Every backend
// keeps one ordered list of records; reads return it sorted by score
// descending.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/MJE43/runner-go/internal/leaderboard"
)

// DB represents the score storage interface
type DB interface {
	// ListScores returns up to limit records, best first. limit <= 0 means
	// leaderboard.ServiceLimit.
	ListScores(ctx context.Context, limit int) ([]leaderboard.Record, error)
	// SubmitScore appends an already validated and normalized record.
	SubmitScore(ctx context.Context, rec leaderboard.Record) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	// ErrMalformed means the backing document exists but is not a JSON array
	// of records. The document is left untouched.
	ErrMalformed = errors.New("store: malformed score data")

	ErrUnknownBackend = errors.New("store: unknown backend")
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Backend     string
	FilePath    string
	SQLitePath  string
	PostgresDSN string
	Logger      *log.Logger
}

// Open creates the configured backend, bootstrapping or migrating its
// storage so the first ListScores succeeds on an empty store.
func Open(ctx context.Context, cfg Config) (DB, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[STORE] ", log.LstdFlags)
	}

	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		return NewFileStore(cfg.FilePath, logger)
	case BackendSQLite:
		db, err := NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Printf("store_ready backend=sqlite path=%s", cfg.SQLitePath)
		return db, nil
	case BackendPostgres:
		db, err := NewPostgresDB(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Printf("store_ready backend=postgres")
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > leaderboard.ServiceLimit {
		return leaderboard.ServiceLimit
	}
	return limit
}
