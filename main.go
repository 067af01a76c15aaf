package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/logging"
)

func main() {
	configPath := flag.String("config", "", "optional settings file (yaml, json or toml)")
	debug := flag.Bool("debug", false, "enable debug logging and overlay")
	backend := flag.String("backend", "", "physics backend: sim or chipmunk")
	flag.Parse()

	app, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		app.Backend = *backend
	}
	if *debug {
		app.LogLevel = "debug"
	}

	logger, err := logging.New(app.LogLevel, os.Stderr, app.Pretty)
	if err != nil {
		log.Fatal(err)
	}

	game, err := NewGame(app, *debug, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("start")
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(app.Window.Width, app.Window.Height)
	ebiten.SetWindowTitle(app.Window.Title)
	ebiten.SetTPS(app.TickRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("run")
	}
}
