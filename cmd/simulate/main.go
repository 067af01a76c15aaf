package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/scene"
	"github.com/milk9111/locomotion/stream"
	"github.com/milk9111/locomotion/telemetry"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "optional settings file (yaml, json or toml)")
	debug := flag.Bool("debug", false, "enable debug logging")
	steps := flag.Int("steps", -1, "number of steps to run (overrides config)")
	backend := flag.String("backend", "", "physics backend: sim or chipmunk")
	script := flag.String("script", "", "input script in prefabs/scripts")
	out := flag.String("out", "", "telemetry CSV path (overrides config)")
	flag.Parse()

	app, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		app.LogLevel = "debug"
	}
	if *steps >= 0 {
		app.Steps = *steps
	}
	if *backend != "" {
		app.Backend = *backend
	}
	if *out != "" {
		app.Telemetry.Path = *out
	}
	if err := app.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(app.LogLevel, os.Stderr, app.Pretty)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var csvOut io.Writer
	if app.Telemetry.Path != "" {
		f, err := os.Create(app.Telemetry.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telemetry file")
		}
		defer f.Close()
		csvOut = f
	}

	sum, err := run(ctx, app, *script, csvOut, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("simulate")
	}
	logger.Info().
		Int("steps", sum.Steps).
		Float64("mean_speed", sum.MeanSpeed).
		Float64("std_speed", sum.StdSpeed).
		Float64("max_speed", sum.MaxSpeed).
		Float64("grounded_ratio", sum.GroundedRatio).
		Float64("mean_ride_error", sum.MeanRideError).
		Float64("max_yaw_rate", sum.MaxYawRate).
		Msg("summary")
}

// run steps a scripted scene app.Steps times and summarises the body's
// motion. A non-empty script overrides any other script choice. Samples go
// to csvOut when it is not nil.
func run(ctx context.Context, app config.App, script string, csvOut io.Writer, logger zerolog.Logger) (telemetry.Summary, error) {
	settings, err := prefabs.LoadSettings(app.Controller, nil)
	if err != nil {
		return telemetry.Summary{}, err
	}
	arena, err := prefabs.LoadArenaSpec(app.Arena)
	if err != nil {
		return telemetry.Summary{}, err
	}

	src, err := loadScript(scriptFor(script, settings, app), settings.Bindings)
	if err != nil {
		return telemetry.Summary{}, err
	}

	sc, err := scene.Build(app, arena, settings, src, logger)
	if err != nil {
		return telemetry.Summary{}, err
	}

	rec := telemetry.NewRecorder(csvOut)
	sc.Host.AddObserver(rec)

	if app.Stream.Addr != "" {
		b := stream.NewBroadcaster(logger)
		defer b.Close()
		sc.Host.AddSink(b)
		srv := serve(app.Stream, b, logger)
		defer shutdown(srv)
	}

	dt := app.DT()
	var runErr error
	for i := 0; i < app.Steps; i++ {
		if err := src.Advance(); err != nil {
			runErr = err
			break
		}
		if err := sc.Host.Step(ctx, dt); err != nil {
			runErr = err
			break
		}
	}
	if runErr == nil {
		runErr = rec.Err()
	}

	return telemetry.Summarize(rec.Samples(), settings.Config.RideHeight), runErr
}

// scriptFor picks the input script: the -script flag first, then the
// controller file, then the app config.
func scriptFor(flagScript string, settings prefabs.Settings, app config.App) string {
	switch {
	case flagScript != "":
		return flagScript
	case settings.Script != "":
		return settings.Script
	default:
		return app.Script
	}
}

func loadScript(name string, bindings input.Map) (*input.ScriptSource, error) {
	data, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	src, err := input.NewScriptSource(data, bindings)
	if err != nil {
		return nil, fmt.Errorf("simulate: script %s: %w", name, err)
	}
	return src, nil
}

func serve(cfg config.Stream, b *stream.Broadcaster, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, b)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", cfg.Addr).Msg("pose stream stopped")
		}
	}()
	logger.Info().Str("addr", cfg.Addr).Str("path", cfg.Path).Msg("streaming poses")
	return srv
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
