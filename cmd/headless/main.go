// Command headless runs the sandbox without a window against a recording
// device, replaying a short input script. It is a smoke test for the
// simulation and logs where the camera ended up.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/game"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
	"github.com/leterax/go-sandbox/pkg/scene"
)

func main() {
	frames := flag.Int("frames", 600, "Frames to simulate")
	settingsPath := flag.String("config", "", "Settings file (TOML)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fatal("Invalid log level", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store := config.New()
	if *settingsPath != "" {
		if err := store.LoadFile(*settingsPath); err != nil {
			fatal("Failed to load settings", err)
		}
	}

	window := game.NewHeadlessWindow(1280, 720)
	window.MaxFrames = *frames
	script(window, *frames)

	factory := &render.NullFactory{}
	g, err := game.New(game.Options{
		Window:  window,
		Devices: factory.Create,
		Config:  store,
		Logger:  logger,
	})
	if err != nil {
		fatal("Failed to initialize game", err)
	}
	if err := g.Run(context.Background()); err != nil {
		fatal("Run failed", err)
	}

	s, ok := g.Scene().(*scene.MainScene)
	if !ok {
		return
	}
	active, err := s.Active()
	if err != nil {
		fatal("No active controller", err)
	}
	pose := active.Pose()
	logger.Info("Simulation finished",
		"frames", g.Frames(),
		"devices", len(factory.Devices),
		"controller", active.Kind(),
		"position", pose.Position,
		"yaw", pose.Axis.Yaw,
		"pitch", pose.Axis.Pitch)
}

// script walks forward, sprints, jumps, looks around and then switches to the
// free camera for the last quarter of the run
func script(w *game.HeadlessWindow, frames int) {
	w.At(0, func(w *game.HeadlessWindow) {
		w.Button(input.MouseRight, true)
		w.MoveCursor(0, 0)
		w.Key("w", input.KeyDown)
	})
	w.At(frames/8, func(w *game.HeadlessWindow) { w.Key("shift", input.KeyDown) })
	w.At(frames/4, func(w *game.HeadlessWindow) { w.Key("space", input.KeyDown) })
	w.At(frames/4+1, func(w *game.HeadlessWindow) { w.Key("space", input.KeyUp) })
	w.At(frames/3, func(w *game.HeadlessWindow) { w.MoveCursor(-200, 40) })
	w.At(frames/2, func(w *game.HeadlessWindow) {
		w.Key("shift", input.KeyUp)
		w.Key("z", input.KeyDown)
	})
	w.At(frames*3/4, func(w *game.HeadlessWindow) {
		w.Key("z", input.KeyUp)
		w.Key("c", input.KeyDown)
	})
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
