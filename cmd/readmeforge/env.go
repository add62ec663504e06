package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
)

// Environment holds injectable dependencies for testability.
// Config and Logger are filled in by the root command before a subcommand
// runs.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Config  *config.Config
	Logger  *slog.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Config:  config.DefaultConfig(),
		Logger:  slog.New(slog.DiscardHandler),
	}
}

// setup loads the configuration named by the --config flag or
// READMEFORGE_CONFIG, overlays the environment, and builds the logger.
// Precedence: flags > env > config file > defaults.
func (e *Environment) setup(configName string) error {
	if configName == "" {
		configName = strings.TrimSpace(e.Getenv(config.EnvConfig))
	}

	cfg := config.DefaultConfig()
	if configName != "" {
		loaded, err := config.LoadConfig(configName)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	config.ApplyEnv(cfg, e.Getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.Config = cfg
	e.Logger = newLogger(e.Stderr, cfg.Log)

	if e.Environ != nil {
		for _, name := range config.UnknownEnvVars(e.Environ()) {
			e.Logger.Warn("unknown environment variable", "name", name)
		}
	}
	return nil
}

// newLogger builds the process logger from the log section.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Level != "" {
		// Validate already rejected unknown levels.
		_ = level.UnmarshalText([]byte(cfg.Level))
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
