// Package config loads simulation settings from EMOJI_SIM_* environment
// variables, then lets command-line flags override them.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"emoji-sim/internal/loop"
	"emoji-sim/internal/system"
)

// Config holds every setting shared by the local runner and the SSH server.
type Config struct {
	MinTick   time.Duration `env:"EMOJI_SIM_MIN_TICK" envDefault:"10ms"`
	Window    int           `env:"EMOJI_SIM_WINDOW" envDefault:"5"`
	MaxTicks  int           `env:"EMOJI_SIM_MAX_TICKS" envDefault:"1000"`
	MaxPasses int           `env:"EMOJI_SIM_MAX_PASSES" envDefault:"16"`

	Width         int           `env:"EMOJI_SIM_WIDTH" envDefault:"40"`
	Height        int           `env:"EMOJI_SIM_HEIGHT" envDefault:"18"`
	Entities      int           `env:"EMOJI_SIM_ENTITIES" envDefault:"24"`
	SpawnInterval time.Duration `env:"EMOJI_SIM_SPAWN_INTERVAL" envDefault:"250ms"`
	Lifetime      time.Duration `env:"EMOJI_SIM_LIFETIME" envDefault:"8s"`
	Seed          int64         `env:"EMOJI_SIM_SEED" envDefault:"0"`

	LogLevel string `env:"EMOJI_SIM_LOG_LEVEL" envDefault:"info"`
	Profile  string `env:"EMOJI_SIM_PROFILE"`
	TUI      bool   `env:"EMOJI_SIM_TUI" envDefault:"false"`
	RunLog   bool   `env:"EMOJI_SIM_RUN_LOG" envDefault:"true"`

	Port    int    `env:"EMOJI_SIM_SSH_PORT" envDefault:"2222"`
	HostKey string `env:"EMOJI_SIM_SSH_HOST_KEY" envDefault:"server_host_key"`
}

// Parse loads env defaults into a Config, registers its flags on fs and
// parses args.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	fs.DurationVar(&cfg.MinTick, "min-tick", cfg.MinTick, "Minimum wall-clock tick duration")
	fs.IntVar(&cfg.Window, "window", cfg.Window, "Number of recent ticks averaged to pick the step length")
	fs.IntVar(&cfg.MaxTicks, "ticks", cfg.MaxTicks, "Tick budget (0 runs until interrupted)")
	fs.IntVar(&cfg.MaxPasses, "max-passes", cfg.MaxPasses, "Cleanup pass limit per tick")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Field width in cells")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Field height in cells")
	fs.IntVar(&cfg.Entities, "entities", cfg.Entities, "Entities created at start")
	fs.DurationVar(&cfg.SpawnInterval, "spawn-interval", cfg.SpawnInterval, "Simulated time between spawns")
	fs.DurationVar(&cfg.Lifetime, "lifetime", cfg.Lifetime, "Simulated lifetime of each entity")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one from the clock)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "Write a cpu or mem profile to the working directory")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Draw the field in the terminal")
	fs.BoolVar(&cfg.RunLog, "run-log", cfg.RunLog, "Append a run summary to $XDG_DATA_HOME/emoji-sim/runs.jsonl")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "SSH server port")
	fs.StringVar(&cfg.HostKey, "key", cfg.HostKey, "Path to the PEM-encoded host key (auto-generated if absent)")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the loop or the demo systems cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MinTick < 0:
		return fmt.Errorf("min tick must not be negative, got %v", c.MinTick)
	case c.Window <= 0:
		return fmt.Errorf("window must be positive, got %d", c.Window)
	case c.MaxTicks < 0:
		return fmt.Errorf("tick budget must not be negative, got %d", c.MaxTicks)
	case c.MaxPasses <= 0:
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("field must be at least 1x1, got %dx%d", c.Width, c.Height)
	case c.Entities < 0:
		return fmt.Errorf("entities must not be negative, got %d", c.Entities)
	case c.Profile != "" && c.Profile != "cpu" && c.Profile != "mem":
		return fmt.Errorf("profile must be cpu or mem, got %q", c.Profile)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Loop returns the pacing settings.
func (c Config) Loop() loop.Config {
	return loop.Config{MinTick: c.MinTick, Window: c.Window, MaxTicks: c.MaxTicks}
}

// Sim returns the demo simulation settings.
func (c Config) Sim() system.Settings {
	return system.Settings{
		Field:         system.Field{Width: c.Width, Height: c.Height},
		Entities:      c.Entities,
		SpawnInterval: c.SpawnInterval,
		Lifetime:      c.Lifetime,
		Seed:          c.Seed,
	}
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
