package render

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/MJE43/runner-go/internal/game"
	"github.com/MJE43/runner-go/internal/leaderboard"
)

func TestHUDText(t *testing.T) {
	s := game.NewState(game.DefaultTuning(), 12345)
	s.Score = 1200
	s.Level = 4

	want := "Score: 1,200   Level: 4   Best: 12,345"
	if got := HUDText(s); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestFormatEntry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rec := leaderboard.Record{Name: "Ana", Score: 4321, Level: 3, Date: "2026-10-19T11:55:00Z"}

	got := FormatEntry(1, rec, now)
	if !strings.HasPrefix(got, " 1. Ana ") {
		t.Errorf("Expected rank and name prefix, got %q", got)
	}
	if !strings.Contains(got, "- 4,321 pts - lvl 3") {
		t.Errorf("Expected score and level, got %q", got)
	}
	if !strings.HasSuffix(got, "| 5 minutes ago") {
		t.Errorf("Expected relative age suffix, got %q", got)
	}
}

func TestFormatEntryWithoutDate(t *testing.T) {
	got := FormatEntry(10, leaderboard.Record{Name: "Zoë", Score: 7, Level: 1}, time.Now())
	if strings.Contains(got, "|") {
		t.Errorf("Expected no age column, got %q", got)
	}
	if !strings.Contains(got, "Zo?") {
		t.Errorf("Expected non-ASCII rune replaced, got %q", got)
	}
}

func TestLeaderboardLines(t *testing.T) {
	if lines := LeaderboardLines(LeaderboardView{Loading: true}); !slices.Contains(lines, "loading...") {
		t.Errorf("Expected loading line, got %v", lines)
	}

	lines := LeaderboardLines(LeaderboardView{Offline: true})
	if lines[0] != "TOP SCORES (offline)" {
		t.Errorf("Expected offline title, got %q", lines[0])
	}
	if !slices.Contains(lines, "no scores yet") {
		t.Errorf("Expected empty-list line, got %v", lines)
	}

	lines = LeaderboardLines(LeaderboardView{Records: []leaderboard.Record{{Name: "a", Score: 2}, {Name: "b", Score: 1}}})
	if len(lines) != 2+2+2 {
		t.Errorf("Expected 6 lines, got %d: %v", len(lines), lines)
	}
}

func TestGameOverLines(t *testing.T) {
	lines := GameOverLines(GameOverView{Score: 950, Level: 3, Name: "Bob", Blink: true, Status: "saved"})
	if lines[0] != "GAME OVER" {
		t.Errorf("Expected title, got %q", lines[0])
	}
	for _, want := range []string{"Score: 950   Level: 3", "Name: Bob_"} {
		if !slices.Contains(lines, want) {
			t.Errorf("Expected line %q in %v", want, lines)
		}
	}
	if lines[len(lines)-1] != "saved" {
		t.Errorf("Expected status last, got %q", lines[len(lines)-1])
	}
}
