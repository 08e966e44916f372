// Package localstore is the game client's on-disk key/value store. It keeps
// the scores that could not (or could) be sent to the score service and the
// device highscore, so both survive restarts and offline play.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/MJE43/runner-go/internal/leaderboard"
)

// Keys under which the client state is stored.
const (
	KeyLocalScores = "runner_local_scores"
	KeyHighscore   = "runner_highscore"
)

type Store struct {
	db *sql.DB
	// serializes read-modify-write of the score list
	mu sync.Mutex
}

// New opens/creates a SQLite database at dbPath and creates the kv table.
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	return err
}

// Get returns the raw value under key; ok is false when the key is unset.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&value)
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	default:
		return "", false, err
	}
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// --------- Scores ---------

// LocalScores returns the locally kept records, best first. Missing or
// malformed data reads as an empty list.
func (s *Store) LocalScores(ctx context.Context) ([]leaderboard.Record, error) {
	raw, ok, err := s.Get(ctx, KeyLocalScores)
	if err != nil {
		return nil, err
	}
	records := []leaderboard.Record{}
	if !ok {
		return records, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil || records == nil {
		return []leaderboard.Record{}, nil
	}
	leaderboard.Sort(records)
	return records, nil
}

// AppendScore adds rec to the local list and keeps it sorted by score
// descending.
func (s *Store) AppendScore(ctx context.Context, rec leaderboard.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.LocalScores(ctx)
	if err != nil {
		return fmt.Errorf("localstore: read scores: %w", err)
	}
	records = append(records, rec)
	leaderboard.Sort(records)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("localstore: encode scores: %w", err)
	}
	if err := s.Set(ctx, KeyLocalScores, string(data)); err != nil {
		return fmt.Errorf("localstore: write scores: %w", err)
	}
	return nil
}

// --------- Highscore ---------

// Highscore returns the stored best score; missing or malformed values
// read as 0.
func (s *Store) Highscore(ctx context.Context) (int, error) {
	raw, ok, err := s.Get(ctx, KeyHighscore)
	if err != nil || !ok {
		return 0, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// SetHighscore stores score as the best score.
func (s *Store) SetHighscore(ctx context.Context, score int) error {
	return s.Set(ctx, KeyHighscore, strconv.Itoa(score))
}
