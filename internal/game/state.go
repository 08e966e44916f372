package game

// Rect is an axis-aligned rectangle in screen coordinates (y grows down).
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether a and b intersect. Touching edges do not count.
func (a Rect) Overlaps(b Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

type Player struct {
	X, Y      float64
	W, H      float64
	VY        float64
	JumpPower float64
	Grounded  bool
}

func (p *Player) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

type Obstacle struct {
	X, Y, W, H float64
}

func (o Obstacle) Rect() Rect {
	return Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
}

// State is the whole mutable state of one run. A single owner (the
// Session) mutates it; renderers only read it.
type State struct {
	Player      Player
	Obstacles   []Obstacle
	ScrollSpeed float64
	Score       int
	Level       int
	Running     bool
	Frames      int

	// Highscore survives Reset.
	Highscore int
}

// NewState returns a fresh running state seeded with a stored highscore.
func NewState(t Tuning, highscore int) *State {
	s := &State{Highscore: highscore}
	s.Reset(t)
	return s
}

// Reset starts a new run. The highscore is preserved.
func (s *State) Reset(t Tuning) {
	s.Player = Player{
		X:         t.PlayerX,
		Y:         t.PlayerStartY,
		W:         t.PlayerSize,
		H:         t.PlayerSize,
		JumpPower: t.JumpPower,
	}
	s.Obstacles = s.Obstacles[:0]
	s.ScrollSpeed = t.BaseScrollSpeed
	s.Score = 0
	s.Level = 1
	s.Running = true
	s.Frames = 0
}
