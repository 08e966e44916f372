// Package render draws the game state and its overlays onto an ebiten
// screen. Nothing here mutates game state.
package render

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/MJE43/runner-go/internal/game"
	"github.com/MJE43/runner-go/internal/leaderboard"
)

var (
	BackgroundColor = color.RGBA{0x1b, 0x22, 0x30, 0xff}
	GroundColor     = color.RGBA{0xe9, 0xee, 0xf5, 0xff}
	PlayerColor     = color.RGBA{0x86, 0xc9, 0xf0, 0xff}
	ObstacleColor   = color.RGBA{0xad, 0x2f, 0xd3, 0xff}

	overlayColor = color.RGBA{0, 0, 0, 160}
	panelColor   = color.RGBA{18, 22, 36, 230}
)

// debug font cell size
const (
	charWidth  = 6
	lineHeight = 16
)

// GameOverView is what the game-over panel shows.
type GameOverView struct {
	Score  int
	Level  int
	Name   string
	Status string
	// Blink toggles the name cursor.
	Blink bool
}

// LeaderboardView is what the leaderboard panel shows.
type LeaderboardView struct {
	Records []leaderboard.Record
	Loading bool
	Offline bool
	Now     time.Time
}

// Renderer draws frames for one Tuning.
type Renderer struct {
	tuning game.Tuning
}

func New(t game.Tuning) *Renderer {
	return &Renderer{tuning: t}
}

// Draw paints the background, ground strip, player and obstacles.
func (r *Renderer) Draw(screen *ebiten.Image, s *game.State) {
	t := r.tuning
	screen.Fill(BackgroundColor)

	fillRect(screen, game.Rect{X: 0, Y: t.GroundY(), W: t.ScreenWidth, H: t.GroundHeight}, GroundColor)
	fillRect(screen, s.Player.Rect(), PlayerColor)
	for _, o := range s.Obstacles {
		fillRect(screen, o.Rect(), ObstacleColor)
	}
}

// DrawHUD prints score, level and highscore in the top-left corner.
func (r *Renderer) DrawHUD(screen *ebiten.Image, s *game.State) {
	ebitenutil.DebugPrintAt(screen, HUDText(s), 10, 8)
}

// DrawGameOver dims the playfield and shows the end-of-run panel.
func (r *Renderer) DrawGameOver(screen *ebiten.Image, v GameOverView) {
	t := r.tuning
	vector.DrawFilledRect(screen, 0, 0, float32(t.ScreenWidth), float32(t.ScreenHeight), overlayColor, false)

	lines := GameOverLines(v)
	r.drawPanel(screen, lines)
}

// DrawLeaderboard shows the top scores panel.
func (r *Renderer) DrawLeaderboard(screen *ebiten.Image, v LeaderboardView) {
	t := r.tuning
	vector.DrawFilledRect(screen, 0, 0, float32(t.ScreenWidth), float32(t.ScreenHeight), overlayColor, false)

	r.drawPanel(screen, LeaderboardLines(v))
}

func (r *Renderer) drawPanel(screen *ebiten.Image, lines []string) {
	t := r.tuning
	width := 0
	for _, l := range lines {
		width = max(width, len(l)*charWidth)
	}
	panelW := float64(width + 40)
	panelH := float64(len(lines)*lineHeight + 24)
	panelX := (t.ScreenWidth - panelW) / 2
	panelY := max((t.ScreenHeight-panelH)/2, 4)

	fillRect(screen, game.Rect{X: panelX, Y: panelY, W: panelW, H: panelH}, panelColor)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(panelX)+20, int(panelY)+12+i*lineHeight)
	}
}

func fillRect(dst *ebiten.Image, rc game.Rect, c color.Color) {
	vector.DrawFilledRect(dst, float32(rc.X), float32(rc.Y), float32(rc.W), float32(rc.H), c, false)
}

// HUDText is the single HUD line.
func HUDText(s *game.State) string {
	return fmt.Sprintf("Score: %s   Level: %d   Best: %s",
		humanize.Comma(int64(s.Score)), s.Level, humanize.Comma(int64(s.Highscore)))
}

// GameOverLines lays out the game-over panel.
func GameOverLines(v GameOverView) []string {
	cursor := " "
	if v.Blink {
		cursor = "_"
	}
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score: %s   Level: %d", humanize.Comma(int64(v.Score)), v.Level),
		"",
		"Name: " + v.Name + cursor,
		"",
		"[Tab] save score   [Enter] play again   [F2] leaderboard",
	}
	if v.Status != "" {
		lines = append(lines, "", v.Status)
	}
	return lines
}

// LeaderboardLines lays out the leaderboard panel.
func LeaderboardLines(v LeaderboardView) []string {
	title := "TOP SCORES"
	if v.Offline {
		title += " (offline)"
	}
	lines := []string{title, ""}

	switch {
	case v.Loading:
		lines = append(lines, "loading...")
	case len(v.Records) == 0:
		lines = append(lines, "no scores yet")
	default:
		for i, rec := range v.Records {
			lines = append(lines, FormatEntry(i+1, rec, v.Now))
		}
	}
	return append(lines, "", "[Esc] close")
}

// FormatEntry renders one leaderboard row:
// "rank. name - score pts - lvl N | age".
func FormatEntry(rank int, rec leaderboard.Record, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d. %-20s - %s pts - lvl %d", rank, asciiOnly(rec.Name), humanize.Comma(int64(rec.Score)), rec.Level)
	if when := rec.Time(); !when.IsZero() {
		b.WriteString(" | ")
		b.WriteString(humanize.RelTime(when, now, "ago", "from now"))
	}
	return b.String()
}

// asciiOnly replaces runes the debug font cannot draw.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
