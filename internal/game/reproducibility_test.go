package game

import (
	"bytes"
	"context"
	"log"
	"regexp"
	"slices"
	"strconv"
	"testing"
)

// playScripted runs a seeded session, jumping whenever an obstacle gets close.
func playScripted(t *testing.T, seed string, maxTicks int) RunSummary {
	t.Helper()
	s, err := NewSession(context.Background(), SessionConfig{Seed: seed, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < maxTicks && s.Phase() == PhaseRunning; i++ {
		st := s.State()
		for _, o := range st.Obstacles {
			if d := o.X - (st.Player.X + st.Player.W); d > 0 && d < 40 {
				s.Push(CommandJump)
				break
			}
		}
		s.Tick(ctx)
	}
	return s.Summary()
}

func TestSeededSessionsAreReproducible(t *testing.T) {
	a := playScripted(t, "repro-seed", 5000)
	b := playScripted(t, "repro-seed", 5000)

	if a.Score != b.Score || a.Level != b.Level || a.Frames != b.Frames {
		t.Fatalf("same seed diverged: %+v vs %+v", a, b)
	}
	if !slices.Equal(a.JumpTicks, b.JumpTicks) {
		t.Fatalf("same seed produced different jump schedules")
	}
}

func TestReplayMatchesRecordedSession(t *testing.T) {
	for _, seed := range []string{"alpha", "beta", "gamma"} {
		t.Run(seed, func(t *testing.T) {
			played := playScripted(t, seed, 3000)

			res := Replay(DefaultTuning(), ReplayRequest{
				Seed:      seed,
				Run:       played.Run,
				JumpTicks: played.JumpTicks,
				MaxTicks:  played.Frames,
			})

			if res.Summary.Score != played.Score || res.Summary.Level != played.Level || res.Summary.Frames != played.Frames {
				t.Fatalf("replay %+v does not match played run %+v", res.Summary, played)
			}
			if res.Draws == 0 {
				t.Error("replay drew no random values")
			}
		})
	}
}

func TestReplayWithoutJumpsCollides(t *testing.T) {
	res := Replay(DefaultTuning(), ReplayRequest{Seed: "no-jumps", MaxTicks: 20000})
	if !res.Finished {
		t.Fatalf("a run that never jumps should hit an obstacle, got %+v", res.Summary)
	}
	if res.Summary.Frames >= 20000 {
		t.Fatalf("replay ran to the tick cap")
	}
}

var runOverLine = regexp.MustCompile(`run_over run=(\d+) score=(\d+) level=\d+ frames=(\d+) jumps=([\d,]*)`)

// A played run can be re-simulated from what the session logs at game over.
func TestReplayFromRunOverLog(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewSession(context.Background(), SessionConfig{Seed: "logged", Logger: log.New(&buf, "", 0)})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	ctx := context.Background()
	for i := 1; i <= 20000 && s.Phase() == PhaseRunning; i++ {
		if i <= 100 && i%30 == 0 {
			s.Push(CommandJump)
		}
		s.Tick(ctx)
	}
	if s.Phase() != PhaseGameOver {
		t.Fatal("run never ended")
	}

	m := runOverLine.FindStringSubmatch(buf.String())
	if m == nil {
		t.Fatalf("no run_over line in log:\n%s", buf.String())
	}
	run, _ := strconv.ParseUint(m[1], 10, 64)
	score, _ := strconv.Atoi(m[2])
	frames, _ := strconv.Atoi(m[3])
	jumps, err := ParseTicks(m[4])
	if err != nil {
		t.Fatalf("ParseTicks(%q): %v", m[4], err)
	}
	if !slices.Equal(jumps, []int{30, 60, 90}) {
		t.Errorf("Expected logged jumps [30 60 90], got %v", jumps)
	}

	res := Replay(DefaultTuning(), ReplayRequest{Seed: "logged", Run: run, JumpTicks: jumps})
	if !res.Finished || res.Summary.Score != score || res.Summary.Frames != frames {
		t.Fatalf("replay %+v (finished=%t) does not match logged score=%d frames=%d", res.Summary, res.Finished, score, frames)
	}

	req := s.ReplayRequest()
	if req.Run != run || req.MaxTicks != frames || !slices.Equal(req.JumpTicks, jumps) {
		t.Errorf("ReplayRequest %+v disagrees with the log", req)
	}
}

func TestReplayRequestArgs(t *testing.T) {
	req := ReplayRequest{Seed: "abc", Run: 3, JumpTicks: []int{41, 97}, MaxTicks: 500}
	want := []string{"-seed", "abc", "-run", "3", "-jumps", "41,97", "-max-ticks", "500"}
	if got := req.Args(); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseTicks(t *testing.T) {
	got, err := ParseTicks(" 12, 40,88 ,")
	if err != nil {
		t.Fatalf("ParseTicks failed: %v", err)
	}
	if !slices.Equal(got, []int{12, 40, 88}) {
		t.Errorf("Expected [12 40 88], got %v", got)
	}
	if back, _ := ParseTicks(FormatTicks(got)); !slices.Equal(back, got) {
		t.Errorf("FormatTicks output not readable back: %v", back)
	}

	if got, err := ParseTicks(""); err != nil || got != nil {
		t.Errorf("Expected nil for empty input, got %v, %v", got, err)
	}

	for _, bad := range []string{"abc", "3,-1", "0"} {
		if _, err := ParseTicks(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
