package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MJE43/runner-go/internal/game"
	"github.com/MJE43/runner-go/internal/leaderboard"
)

var _ game.HighscoreStore = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func scoresOf(t *testing.T, s *Store) []int {
	t.Helper()
	records, err := s.LocalScores(context.Background())
	if err != nil {
		t.Fatalf("LocalScores failed: %v", err)
	}
	if records == nil {
		t.Fatal("Expected a non-nil list")
	}
	scores := make([]int, len(records))
	for i, r := range records {
		scores[i] = r.Score
	}
	return scores
}

func TestGetSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Expected missing key, got ok=%t err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Errorf("Expected two, got %q ok=%t err=%v", v, ok, err)
	}
}

func TestAppendScoreKeepsSorted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, score := range []int{50, 120, 90} {
		if err := s.AppendScore(ctx, leaderboard.Record{Name: "p", Score: score, Level: 1}); err != nil {
			t.Fatalf("AppendScore failed: %v", err)
		}
	}

	got := scoresOf(t, s)
	want := []int{120, 90, 50}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestMalformedDataReadsAsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyLocalScores, "not json"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, KeyHighscore, "lots"); err != nil {
		t.Fatal(err)
	}

	if got := scoresOf(t, s); len(got) != 0 {
		t.Errorf("Expected empty list, got %v", got)
	}
	if hs, err := s.Highscore(ctx); err != nil || hs != 0 {
		t.Errorf("Expected highscore 0, got %d err=%v", hs, err)
	}

	// a malformed list is replaced on the next append
	if err := s.AppendScore(ctx, leaderboard.Record{Name: "p", Score: 5}); err != nil {
		t.Fatalf("AppendScore failed: %v", err)
	}
	if got := scoresOf(t, s); len(got) != 1 {
		t.Errorf("Expected 1 record, got %v", got)
	}
}

func TestHighscore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if hs, err := s.Highscore(ctx); err != nil || hs != 0 {
		t.Fatalf("Expected initial highscore 0, got %d err=%v", hs, err)
	}
	if err := s.SetHighscore(ctx, 1234); err != nil {
		t.Fatalf("SetHighscore failed: %v", err)
	}
	if hs, err := s.Highscore(ctx); err != nil || hs != 1234 {
		t.Errorf("Expected highscore 1234, got %d err=%v", hs, err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.SetHighscore(ctx, 77); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendScore(ctx, leaderboard.Record{Name: "p", Score: 77, Level: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = New(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()

	if hs, err := s.Highscore(ctx); err != nil || hs != 77 {
		t.Errorf("Expected highscore 77 after reopen, got %d err=%v", hs, err)
	}
	if got := scoresOf(t, s); len(got) != 1 {
		t.Errorf("Expected 1 record after reopen, got %v", got)
	}
}
