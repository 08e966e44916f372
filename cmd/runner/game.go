package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/MJE43/runner-go/internal/client"
	"github.com/MJE43/runner-go/internal/game"
	"github.com/MJE43/runner-go/internal/leaderboard"
	"github.com/MJE43/runner-go/internal/render"
)

type submitOutcome struct {
	res client.SubmitResult
	err error
}

type fetchOutcome struct {
	res client.FetchResult
	err error
}

// Game adapts a game.Session to ebiten. Network calls run on goroutines and
// report back through buffered channels drained in Update, so the session
// is only ever touched from the ebiten loop.
type Game struct {
	ctx      context.Context
	session  *game.Session
	renderer *render.Renderer
	scores   *client.Client
	logger   *log.Logger

	name      []rune
	status    string
	savedRun  uint64 // run number already submitted
	frames    int

	showBoard bool
	board     render.LeaderboardView

	submitCh chan submitOutcome
	fetchCh  chan fetchOutcome
	pending  int
}

func NewGame(ctx context.Context, session *game.Session, scores *client.Client, logger *log.Logger) *Game {
	return &Game{
		ctx:      ctx,
		session:  session,
		renderer: render.New(session.Tuning()),
		scores:   scores,
		logger:   logger,
		submitCh: make(chan submitOutcome, 1),
		fetchCh:  make(chan fetchOutcome, 1),
	}
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || g.ctx.Err() != nil {
		g.shutdown()
		return ebiten.Termination
	}
	g.frames++
	g.pollResults()

	if g.showBoard {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyF2) {
			g.showBoard = false
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.openLeaderboard()
		return nil
	}

	switch g.session.Phase() {
	case game.PhaseRunning:
		if jumpPressed() {
			g.session.Push(game.CommandJump)
		}
	case game.PhaseGameOver:
		g.name = editName(g.name, ebiten.AppendInputChars(nil), inpututil.IsKeyJustPressed(ebiten.KeyBackspace))
		if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
			g.submit()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
			g.restart()
		}
	}

	g.tick()
	return nil
}

// tick advances the session and, for seeded sessions, logs the replay-run
// flags of a run that just ended.
func (g *Game) tick() {
	before := g.session.Phase()
	if g.session.Tick(g.ctx) == game.PhaseGameOver && before == game.PhaseRunning && g.session.Seeded() {
		g.logger.Printf("replay_args %s", strings.Join(g.session.ReplayRequest().Args(), " "))
	}
}

// restart queues a new run and clears the game-over panel input.
func (g *Game) restart() {
	g.session.Push(game.CommandRestart)
	g.name = g.name[:0]
	g.status = ""
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session.State()
	g.renderer.Draw(screen, s)
	g.renderer.DrawHUD(screen, s)

	if g.session.Phase() == game.PhaseGameOver {
		g.renderer.DrawGameOver(screen, render.GameOverView{
			Score:  s.Score,
			Level:  s.Level,
			Name:   string(g.name),
			Status: g.status,
			Blink:  (g.frames/30)%2 == 0,
		})
	}
	if g.showBoard {
		g.board.Now = time.Now()
		g.renderer.DrawLeaderboard(screen, g.board)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	t := g.session.Tuning()
	return int(t.ScreenWidth), int(t.ScreenHeight)
}

// submit sends the finished run once.
func (g *Game) submit() {
	sum := g.session.Summary()
	if g.savedRun == sum.Run {
		return
	}
	g.savedRun = sum.Run
	g.status = "saving..."

	rec := leaderboard.NewRecord(string(g.name), sum.Score, sum.Level, time.Now())
	g.pending++
	go func() {
		res, err := g.scores.SubmitScore(g.ctx, rec)
		g.submitCh <- submitOutcome{res: res, err: err}
	}()
}

func (g *Game) openLeaderboard() {
	g.showBoard = true
	g.board = render.LeaderboardView{Loading: true}
	g.pending++
	go func() {
		res, err := g.scores.FetchTop(g.ctx, leaderboard.DefaultTop)
		g.fetchCh <- fetchOutcome{res: res, err: err}
	}()
}

func (g *Game) pollResults() {
	for {
		select {
		case out := <-g.submitCh:
			g.pending--
			g.handleSubmit(out)
		case out := <-g.fetchCh:
			g.pending--
			g.board = render.LeaderboardView{
				Records: out.res.Records,
				Offline: out.res.Source == client.SourceLocalFallback,
			}
			if out.err != nil {
				g.logger.Printf("fetch_failed err=%v", out.err)
			}
		default:
			return
		}
	}
}

// handleSubmit reports a save outcome and, once the score is stored, shows
// the leaderboard with it.
func (g *Game) handleSubmit(out submitOutcome) {
	switch {
	case out.err != nil:
		g.status = "could not save score"
		g.logger.Printf("submit_failed err=%v", out.err)
		return
	case out.res.Source == client.SourceLocalFallback:
		g.status = "saved locally (server offline)"
	default:
		g.status = "score saved"
	}
	g.openLeaderboard()
}

// shutdown waits briefly for in-flight submissions so a score saved right
// before closing reaches local storage. main flushes the highscore after.
func (g *Game) shutdown() {
	deadline := time.After(2 * time.Second)
	for g.pending > 0 {
		select {
		case <-g.submitCh:
			g.pending--
		case <-g.fetchCh:
			g.pending--
		case <-deadline:
			g.logger.Printf("shutdown_pending requests=%d", g.pending)
			return
		}
	}
}

func jumpPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// editName applies typed characters and a backspace to name, keeping it
// within leaderboard.ClientNameLen runes.
func editName(name, typed []rune, backspace bool) []rune {
	if backspace && len(name) > 0 {
		name = name[:len(name)-1]
	}
	for _, r := range typed {
		if r < 0x20 || r == 0x7f || len(name) >= leaderboard.ClientNameLen {
			continue
		}
		name = append(name, r)
	}
	return name
}
