package game

// Rand is the source of spawn randomness. *rand.Rand from math/rand/v2 and
// *engine.Stream both satisfy it.
type Rand interface {
	Float64() float64
}

// Input is the set of commands consumed by one tick.
type Input struct {
	Jump    bool
	Restart bool
}

// StepResult reports what happened during a tick.
type StepResult struct {
	Spawned      bool
	Collided     bool
	LevelChanged bool
	NewHighscore bool
}

// Step advances a running state by one tick. It is a no-op once the run is
// over; restarting is the Session's job.
func Step(s *State, t Tuning, in Input, rng Rand) StepResult {
	var res StepResult
	if !s.Running {
		return res
	}

	s.Frames++

	if rng.Float64() < t.SpawnProbability(s.Level) {
		spawnObstacle(s, t, rng)
		res.Spawned = true
	}

	applyGravity(&s.Player, t)
	if in.Jump {
		jump(&s.Player)
	}

	advanceObstacles(s, t)

	if collides(&s.Player, s.Obstacles) {
		s.Running = false
		res.Collided = true
	}

	if s.Frames%t.TicksPerPoint == 0 {
		s.Score++
	}

	if level := t.LevelFor(s.Score); level != s.Level {
		s.Level = level
		s.ScrollSpeed = t.ScrollSpeedFor(level)
		res.LevelChanged = true
	}

	if s.Score > s.Highscore {
		s.Highscore = s.Score
		res.NewHighscore = true
	}

	return res
}

func spawnObstacle(s *State, t Tuning, rng Rand) {
	h := t.ObstacleMinHeight + int(rng.Float64()*float64(t.ObstacleHeightRange+s.Level*t.ObstacleHeightPerLevel))
	w := t.ObstacleMinWidth + int(rng.Float64()*float64(t.ObstacleWidthRange+s.Level*t.ObstacleWidthPerLevel))
	s.Obstacles = append(s.Obstacles, Obstacle{
		X: t.ScreenWidth + t.ObstacleSpawnOffset,
		Y: t.GroundY() - float64(h),
		W: float64(w),
		H: float64(h),
	})
}

func applyGravity(p *Player, t Tuning) {
	p.VY += t.Gravity
	p.Y += p.VY

	groundY := t.GroundY()
	if p.Y+p.H >= groundY {
		p.Y = groundY - p.H
		p.VY = 0
		p.Grounded = true
	}
}

// jump only fires from the ground.
func jump(p *Player) bool {
	if !p.Grounded {
		return false
	}
	p.VY = -p.JumpPower
	p.Grounded = false
	return true
}

// advanceObstacles scrolls every obstacle left and drops the ones whose
// trailing edge has passed the despawn margin, keeping survivor order.
func advanceObstacles(s *State, t Tuning) {
	kept := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		o.X -= s.ScrollSpeed
		if o.X+o.W < -t.DespawnMargin {
			continue
		}
		kept = append(kept, o)
	}
	clear(s.Obstacles[len(kept):])
	s.Obstacles = kept
}

func collides(p *Player, obstacles []Obstacle) bool {
	pr := p.Rect()
	for _, o := range obstacles {
		if pr.Overlaps(o.Rect()) {
			return true
		}
	}
	return false
}
