// Command runner is the endless-runner game window.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/MJE43/runner-go/internal/client"
	"github.com/MJE43/runner-go/internal/config"
	"github.com/MJE43/runner-go/internal/game"
	"github.com/MJE43/runner-go/internal/localstore"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.LoadClient()

	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "score service base URL")
	flag.StringVar(&cfg.Seed, "seed", cfg.Seed, "make runs reproducible with this seed")
	flag.StringVar(&cfg.LocalDBPath, "local-db", cfg.LocalDBPath, "local score database path")
	flag.Parse()

	log.Printf("Starting runner (Go %s)...", runtime.Version())

	if dir := filepath.Dir(cfg.LocalDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("local data dir: %v", err)
		}
	}
	local, err := localstore.New(cfg.LocalDBPath)
	if err != nil {
		log.Fatalf("local store init failed: %v", err)
	}
	defer local.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session, err := game.NewSession(ctx, game.SessionConfig{
		Seed:       cfg.Seed,
		Highscores: local,
		Logger:     log.New(os.Stdout, "[GAME] ", log.LstdFlags),
	})
	if err != nil {
		log.Fatalf("session init failed: %v", err)
	}

	scores := client.New(client.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  log.New(os.Stdout, "[CLIENT] ", log.LstdFlags),
	}, local)

	g := NewGame(ctx, session, scores, log.New(os.Stdout, "[APP] ", log.LstdFlags))

	t := session.Tuning()
	ebiten.SetWindowSize(int(t.ScreenWidth), int(t.ScreenHeight))
	ebiten.SetWindowTitle("Runner")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(g); err != nil {
		log.Printf("game loop: %v", err)
	}
	session.Close(context.Background())
}
