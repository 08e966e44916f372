package game

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/MJE43/runner-go/internal/engine"
)

// Phase is the session state machine position.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseGameOver
)

func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game_over"
	}
	return "running"
}

// HighscoreStore persists the best score across sessions.
type HighscoreStore interface {
	Highscore(ctx context.Context) (int, error)
	SetHighscore(ctx context.Context, score int) error
}

// RunSummary describes a finished run. JumpTicks lists the ticks on which
// a jump was requested, enough to Replay a seeded run.
type RunSummary struct {
	Run       uint64
	Score     int
	Level     int
	Frames    int
	JumpTicks []int
}

// SessionConfig configures a Session. Seed is optional: when set, every
// run's obstacle stream is derived from (Seed, run number).
type SessionConfig struct {
	Tuning     Tuning
	Seed       string
	Highscores HighscoreStore
	Logger     *log.Logger
}

// Session owns the run state and drives it through
// RUNNING -> GAME_OVER -> RUNNING.
type Session struct {
	tuning     Tuning
	seed       string
	run        uint64
	state      *State
	rng        Rand
	queue      Queue
	phase      Phase
	jumps      []int
	highscores HighscoreStore
	logger     *log.Logger

	savedHighscore int
}

// NewSession loads the stored highscore and starts the first run.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.Tuning == (Tuning{}) {
		cfg.Tuning = DefaultTuning()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[GAME] ", log.LstdFlags)
	}

	highscore := 0
	if cfg.Highscores != nil {
		hs, err := cfg.Highscores.Highscore(ctx)
		if err != nil {
			return nil, fmt.Errorf("game: load highscore: %w", err)
		}
		highscore = hs
	}

	s := &Session{
		tuning:         cfg.Tuning,
		seed:           cfg.Seed,
		highscores:     cfg.Highscores,
		logger:         logger,
		savedHighscore: highscore,
		state:          NewState(cfg.Tuning, highscore),
	}
	s.startRun()
	return s, nil
}

func (s *Session) startRun() {
	s.run++
	if s.seed != "" {
		s.rng = engine.NewStream(s.seed, s.run)
	} else {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), s.run))
	}
	s.phase = PhaseRunning
	s.jumps = nil
	s.logger.Printf("run_start run=%d seeded=%t seed_hash=%s highscore=%d",
		s.run, s.seed != "", engine.HashSeed(s.seed), s.state.Highscore)
}

// Push queues a command for the next tick.
func (s *Session) Push(c Command) {
	s.queue.Push(c)
}

// Tick consumes queued input and advances the session by one frame.
func (s *Session) Tick(ctx context.Context) Phase {
	in := s.queue.Drain()

	switch s.phase {
	case PhaseGameOver:
		if in.Restart {
			s.state.Reset(s.tuning)
			s.startRun()
		}
	case PhaseRunning:
		if in.Jump {
			s.jumps = append(s.jumps, s.state.Frames+1)
		}
		res := Step(s.state, s.tuning, in, s.rng)
		if res.LevelChanged {
			s.logger.Printf("level_up run=%d level=%d scroll_speed=%.0f", s.run, s.state.Level, s.state.ScrollSpeed)
		}
		if res.Collided {
			s.phase = PhaseGameOver
			s.logger.Printf("run_over run=%d score=%d level=%d frames=%d jumps=%s",
				s.run, s.state.Score, s.state.Level, s.state.Frames, FormatTicks(s.jumps))
			s.persistHighscore(ctx)
		}
	}
	return s.phase
}

// persistHighscore writes the highscore if it moved since the last save.
// Failures are logged; the in-memory value stays authoritative.
func (s *Session) persistHighscore(ctx context.Context) {
	if s.highscores == nil || s.state.Highscore <= s.savedHighscore {
		return
	}
	if err := s.highscores.SetHighscore(ctx, s.state.Highscore); err != nil {
		s.logger.Printf("highscore_save_failed highscore=%d error=%v", s.state.Highscore, err)
		return
	}
	s.savedHighscore = s.state.Highscore
}

// Close flushes an unsaved highscore, e.g. when the window closes mid-run.
func (s *Session) Close(ctx context.Context) {
	s.persistHighscore(ctx)
}

func (s *Session) Phase() Phase { return s.phase }

// State exposes the live run state for rendering. Callers must not mutate it.
func (s *Session) State() *State { return s.state }

func (s *Session) Tuning() Tuning { return s.tuning }

func (s *Session) RunNumber() uint64 { return s.run }

// Seeded reports whether runs are derived from a seed and so can be replayed.
func (s *Session) Seeded() bool { return s.seed != "" }

// ReplayRequest returns what Replay needs to re-simulate the current run up
// to the latest tick. Only seeded sessions replay faithfully.
func (s *Session) ReplayRequest() ReplayRequest {
	return ReplayRequest{
		Seed:      s.seed,
		Run:       s.run,
		JumpTicks: slices.Clone(s.jumps),
		MaxTicks:  s.state.Frames,
	}
}

// Summary describes the current (or just finished) run.
func (s *Session) Summary() RunSummary {
	return RunSummary{
		Run:       s.run,
		Score:     s.state.Score,
		Level:     s.state.Level,
		Frames:    s.state.Frames,
		JumpTicks: slices.Clone(s.jumps),
	}
}
