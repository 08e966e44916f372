package game

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/MJE43/runner-go/internal/engine"
)

// ReplayRequest describes a seeded run to re-simulate headlessly.
type ReplayRequest struct {
	Seed      string
	Run       uint64
	JumpTicks []int // 1-based ticks on which a jump command was queued
	MaxTicks  int   // defaults to DefaultReplayTicks
}

// DefaultReplayTicks bounds a replay that never collides (about 4.8 hours
// at 60 ticks per second).
const DefaultReplayTicks = 1 << 20

// ReplayResult is the outcome of a replayed run.
type ReplayResult struct {
	Summary  RunSummary
	Finished bool // the run ended in a collision before MaxTicks
	Draws    uint64
}

// Replay re-runs a seeded run tick by tick with the recorded jumps. The
// same request always produces the same result.
func Replay(t Tuning, req ReplayRequest) ReplayResult {
	if req.Run == 0 {
		req.Run = 1
	}
	if req.MaxTicks <= 0 {
		req.MaxTicks = DefaultReplayTicks
	}
	jumps := slices.Clone(req.JumpTicks)
	slices.Sort(jumps)

	rng := engine.NewStream(req.Seed, req.Run)
	s := NewState(t, 0)

	next := 0
	for tick := 1; tick <= req.MaxTicks; tick++ {
		var in Input
		for next < len(jumps) && jumps[next] <= tick {
			if jumps[next] == tick {
				in.Jump = true
			}
			next++
		}
		Step(s, t, in, rng)
		if !s.Running {
			break
		}
	}

	return ReplayResult{
		Summary:  RunSummary{Run: req.Run, Score: s.Score, Level: s.Level, Frames: s.Frames},
		Finished: !s.Running,
		Draws:    rng.Drawn(),
	}
}

// Args renders the request as replay-run flags.
func (r ReplayRequest) Args() []string {
	args := []string{"-seed", r.Seed, "-run", strconv.FormatUint(r.Run, 10)}
	if len(r.JumpTicks) > 0 {
		args = append(args, "-jumps", FormatTicks(r.JumpTicks))
	}
	if r.MaxTicks > 0 {
		args = append(args, "-max-ticks", strconv.Itoa(r.MaxTicks))
	}
	return args
}

// FormatTicks joins ticks as "12,40,88", the form ParseTicks reads.
func FormatTicks(ticks []int) string {
	parts := make([]string, len(ticks))
	for i, t := range ticks {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ",")
}

// ParseTicks reads "12, 40,88" into positive ticks; order does not matter.
func ParseTicks(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ticks := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid jump tick %q", p)
		}
		ticks = append(ticks, n)
	}
	return ticks, nil
}
