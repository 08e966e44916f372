package game

// Tuning holds every gameplay constant. DefaultTuning matches the shipped
// game; tests build their own to isolate a rule.
type Tuning struct {
	ScreenWidth  float64
	ScreenHeight float64
	GroundHeight float64

	PlayerX      float64
	PlayerStartY float64
	PlayerSize   float64
	JumpPower    float64
	Gravity      float64

	BaseScrollSpeed     float64
	ScrollSpeedPerLevel float64

	SpawnBase     float64
	SpawnPerLevel float64
	SpawnCap      float64

	ObstacleMinHeight      int
	ObstacleHeightRange    int
	ObstacleHeightPerLevel int
	ObstacleMinWidth       int
	ObstacleWidthRange     int
	ObstacleWidthPerLevel  int
	ObstacleSpawnOffset    float64
	DespawnMargin          float64

	TicksPerPoint  int
	PointsPerLevel int
}

// DefaultTuning returns the standard game constants.
func DefaultTuning() Tuning {
	return Tuning{
		ScreenWidth:  800,
		ScreenHeight: 300,
		GroundHeight: 20,

		PlayerX:      60,
		PlayerStartY: 200,
		PlayerSize:   44,
		JumpPower:    13,
		Gravity:      0.8,

		BaseScrollSpeed:     6,
		ScrollSpeedPerLevel: 1.5,

		SpawnBase:     0.02,
		SpawnPerLevel: 0.005,
		SpawnCap:      0.18,

		ObstacleMinHeight:      20,
		ObstacleHeightRange:    20,
		ObstacleHeightPerLevel: 3,
		ObstacleMinWidth:       18,
		ObstacleWidthRange:     20,
		ObstacleWidthPerLevel:  1,
		ObstacleSpawnOffset:    10,
		DespawnMargin:          50,

		TicksPerPoint:  4,
		PointsPerLevel: 400,
	}
}

// GroundY is the y coordinate of the ground line.
func (t Tuning) GroundY() float64 {
	return t.ScreenHeight - t.GroundHeight
}

// SpawnProbability is the per-tick chance of a new obstacle at level.
func (t Tuning) SpawnProbability(level int) float64 {
	return min(t.SpawnBase+float64(level)*t.SpawnPerLevel, t.SpawnCap)
}

// LevelFor maps a score to its level.
func (t Tuning) LevelFor(score int) int {
	return 1 + score/t.PointsPerLevel
}

// ScrollSpeedFor is the scroll speed applied when a run reaches level.
func (t Tuning) ScrollSpeedFor(level int) float64 {
	return t.BaseScrollSpeed + float64(int(float64(level)*t.ScrollSpeedPerLevel))
}
