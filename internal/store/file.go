package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/MJE43/runner-go/internal/leaderboard"
)

// FileStore keeps the leaderboard as a single JSON array document. Every
// submit rewrites the whole file.
//
// The mutex serializes read-modify-write cycles inside one process only;
// two server processes sharing the file can still lose updates.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *log.Logger
}

// NewFileStore bootstraps path (and its directory) as an empty list when it
// does not exist yet.
func NewFileStore(path string, logger *log.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store: file path is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	f := &FileStore{path: path, logger: logger}
	if err := f.bootstrap(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileStore) bootstrap() error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: stat %s: %w", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("store: create data dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("store: create %s: %w", f.path, err)
	}
	f.logger.Printf("store_bootstrap backend=file path=%s", f.path)
	return nil
}

// ListScores reads the document and returns the best limit records.
func (f *FileStore) ListScores(ctx context.Context, limit int) ([]leaderboard.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	records, err := f.read()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	leaderboard.Sort(records)
	return leaderboard.Top(records, normalizeLimit(limit)), nil
}

// SubmitScore appends rec, re-sorts the list and rewrites the document.
func (f *FileStore) SubmitScore(ctx context.Context, rec leaderboard.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.read()
	if err != nil {
		return err
	}
	records = append(records, rec)
	leaderboard.Sort(records)
	return f.write(records)
}

// Ping checks the document is still reachable.
func (f *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.path); err != nil {
		return fmt.Errorf("store: stat %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// read loads the document; a file deleted since bootstrap is recreated
// empty. Caller holds f.mu.
func (f *FileStore) read() ([]leaderboard.Record, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := f.bootstrap(); err != nil {
			return nil, err
		}
		return []leaderboard.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []leaderboard.Record{}, nil
	}

	var records []leaderboard.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, f.path, err)
	}
	if records == nil {
		records = []leaderboard.Record{}
	}
	return records, nil
}

// write replaces the document through a temp file and rename so a crash
// never leaves a half-written list. Caller holds f.mu.
func (f *FileStore) write(records []leaderboard.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode scores: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", f.path, err)
	}
	return nil
}
