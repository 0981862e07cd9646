// emoji-sim runs the wandering-emoji simulation in the current terminal.
//
//	go run . [-tui] [-ticks 0] [-entities 40] [-profile cpu]
//
// Without -tui the simulation runs headless and logs its progress. Every
// flag can also be set through an EMOJI_SIM_* environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"

	"emoji-sim/internal/config"
	"emoji-sim/internal/game"
	"emoji-sim/internal/telemetry"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	var logger *slog.Logger
	if cfg.TUI {
		// The screen owns the terminal.
		logger = slog.New(slog.DiscardHandler)
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	slog.SetDefault(logger)

	shutdown, err := telemetry.Setup(ctx, "emoji-sim")
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer telemetry.Shutdown(shutdown, log.Printf)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	g, err := game.New(cfg, game.Options{Logger: logger})
	if err != nil {
		return err
	}
	if !cfg.TUI {
		return g.Run(ctx)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx)
		cancel()
	}()
	game.Watch(ctx, screen, g.Hub(), "q quit  r redraw")
	cancel()
	return <-done
}
