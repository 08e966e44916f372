package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/MJE43/runner-go/internal/leaderboard"
)

//go:embed migrations
var migrationsFS embed.FS

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (or creates) the database at path.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Migrate applies the embedded schema migrations. Running it again is a
// no-op.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	return migrate(ctx, s.db, goose.DialectSQLite3, "migrations/sqlite")
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("store: migrations %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("store: migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// ListScores returns the best records, oldest first among equal scores.
func (s *SQLiteDB) ListScores(ctx context.Context, limit int) ([]leaderboard.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, level, date FROM scores ORDER BY score DESC, rowid ASC LIMIT ?`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list scores: %w", err)
	}
	defer rows.Close()

	records := []leaderboard.Record{}
	for rows.Next() {
		var r leaderboard.Record
		if err := rows.Scan(&r.Name, &r.Score, &r.Level, &r.Date); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SubmitScore inserts rec under a fresh id.
func (s *SQLiteDB) SubmitScore(ctx context.Context, rec leaderboard.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, name, score, level, date) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), rec.Name, rec.Score, rec.Level, rec.Date)
	if err != nil {
		return fmt.Errorf("store: insert score: %w", err)
	}
	return nil
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
