package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/leterax/go-sandbox/internal/openglhelper"
	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/game"
	"github.com/leterax/go-sandbox/pkg/render/gldevice"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	title := flag.String("title", "Go Sandbox", "Window title")
	settingsPath := flag.String("config", "", "Settings file (TOML)")
	watch := flag.Bool("watch", false, "Reload the settings file when it changes")
	vsync := flag.Bool("vsync", true, "Enable vsync")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fatal("Invalid log level", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store := config.New()
	var watcher *config.Watcher
	if *settingsPath != "" {
		if err := store.LoadFile(*settingsPath); err != nil {
			fatal("Failed to load settings", err)
		}
		if *watch {
			w, err := config.NewWatcher(*settingsPath, logger)
			if err != nil {
				fatal("Failed to watch settings", err)
			}
			defer w.Close()
			watcher = w
		}
	}

	window, err := openglhelper.NewWindow(*width, *height, *title, *vsync)
	if err != nil {
		fatal("Failed to create window", err)
	}
	defer window.Close()

	g, err := game.New(game.Options{
		Window:  window,
		Title:   *title,
		Devices: gldevice.New,
		Config:  store,
		Watcher: watcher,
		Logger:  logger,
	})
	if err != nil {
		fatal("Failed to initialize game", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := g.Run(ctx); err != nil {
		logger.Error("Game failed", "err", err)
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
